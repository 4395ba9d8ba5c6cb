package domain

import "fmt"

// Workspace holds the coordinates of the audited workspace. They are passed to the
// data source unchanged.
type Workspace struct {
	SubscriptionID string
	ResourceGroup  string
	Name           string
}

func (w Workspace) String() string {
	return fmt.Sprintf("%s/%s/%s", w.SubscriptionID, w.ResourceGroup, w.Name)
}
