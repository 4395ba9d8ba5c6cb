package sentinel

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

const (
	CredentialDefault = "default"
	CredentialCLI     = "cli"
)

// NewCredential resolves Azure credentials. "default" walks the environment, managed
// identity and Azure CLI chain; "cli" only uses the logged-in Azure CLI session.
func NewCredential(kind, tenantID string) (azcore.TokenCredential, error) {
	switch kind {
	case "", CredentialDefault:
		cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
			TenantID: tenantID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create default Azure credential: %w", err)
		}
		return cred, nil
	case CredentialCLI:
		cred, err := azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{
			TenantID: tenantID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure CLI credential: %w", err)
		}
		return cred, nil
	default:
		return nil, fmt.Errorf("unsupported credential type: %s", kind)
	}
}
