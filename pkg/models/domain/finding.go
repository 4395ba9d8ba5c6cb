package domain

import "fmt"

const (
	CategoryDataConnectors   = "Data Connectors"
	CategoryAnalyticsRules   = "Analytics Rules"
	CategoryAutomation       = "Automation"
	CategoryIncidentAnalysis = "Incident Analysis"
	CategoryWorkspaceHealth  = "Workspace Health"
)

// IssueOK marks a healthy finding. Every other issue value is flagged.
const IssueOK = "OK"

// Unknown is reported for status fields the data source did not return.
const Unknown = "Unknown"

// Attribute is a single scalar column of a finding.
type Attribute struct {
	Key   string
	Value any
}

// Attributes is an ordered open mapping. Order is kept so exported columns are stable.
type Attributes []Attribute

func (a Attributes) Get(key string) (any, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return nil, false
}

func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for _, attr := range a {
		keys = append(keys, attr.Key)
	}
	return keys
}

// Text renders the value stored under key. Absent keys and nil values render blank.
func (a Attributes) Text(key string) string {
	v, ok := a.Get(key)
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Finding is the normalized output record of a check.
type Finding struct {
	Category   string
	Name       string
	Attributes Attributes
	Issue      string
}

func (f Finding) Flagged() bool {
	return f.Issue != IssueOK
}

func (f Finding) clone() Finding {
	c := f
	if f.Attributes != nil {
		c.Attributes = append(Attributes(nil), f.Attributes...)
	}
	return c
}
