package sentinel

import (
	"time"

	"github.com/de-tools/sentinel-audit/pkg/models/domain"
	jsoniter "github.com/json-iterator/go"
)

// Connectors and alert rules are polymorphic on "kind" and the SDK only models some
// kinds. Every item is read from the ARM response body by path instead.

const (
	dataTypeEnabled = "Enabled"
	stateConnected  = "Connected"
	stateDisconnect = "Disconnected"
	automationOn    = "Enabled"
	automationOff   = "Disabled"
)

func str(node jsoniter.Any, path ...interface{}) string {
	v := node.Get(path...)
	if v.ValueType() != jsoniter.StringValue {
		return ""
	}
	return v.ToString()
}

func boolean(node jsoniter.Any, path ...interface{}) *bool {
	v := node.Get(path...)
	if v.ValueType() != jsoniter.BoolValue {
		return nil
	}
	b := v.ToBool()
	return &b
}

func integer(node jsoniter.Any, path ...interface{}) *int {
	v := node.Get(path...)
	if v.ValueType() != jsoniter.NumberValue {
		return nil
	}
	i := v.ToInt()
	return &i
}

func float(node jsoniter.Any, path ...interface{}) *float64 {
	v := node.Get(path...)
	if v.ValueType() != jsoniter.NumberValue {
		return nil
	}
	f := v.ToFloat64()
	return &f
}

// connectorState derives a connection state from the connector's data types. A
// connector is connected when every data type it exposes is enabled.
func connectorState(node jsoniter.Any) string {
	dataTypes := node.Get("properties", "dataTypes")
	if dataTypes.ValueType() != jsoniter.ObjectValue {
		return ""
	}

	keys := dataTypes.Keys()
	if len(keys) == 0 {
		return ""
	}
	for _, key := range keys {
		state := str(dataTypes, key, "state")
		if state == "" {
			return ""
		}
		if state != dataTypeEnabled {
			return stateDisconnect
		}
	}
	return stateConnected
}

func parseConnector(node jsoniter.Any) domain.DataConnector {
	return domain.DataConnector{
		Name:  str(node, "name"),
		Kind:  str(node, "kind"),
		State: connectorState(node),
	}
}

func parseAnalyticsRule(node jsoniter.Any) domain.AnalyticsRule {
	name := str(node, "properties", "displayName")
	if name == "" {
		name = str(node, "name")
	}
	return domain.AnalyticsRule{
		DisplayName: name,
		Kind:        str(node, "kind"),
		Enabled:     boolean(node, "properties", "enabled"),
		Severity:    str(node, "properties", "severity"),
	}
}

func parseAutomationRule(node jsoniter.Any) domain.AutomationRule {
	rule := domain.AutomationRule{DisplayName: str(node, "properties", "displayName")}
	if enabled := boolean(node, "properties", "triggeringLogic", "isEnabled"); enabled != nil {
		rule.State = automationOff
		if *enabled {
			rule.State = automationOn
		}
	}
	return rule
}

func parseIncident(node jsoniter.Any) domain.Incident {
	inc := domain.Incident{
		Severity: str(node, "properties", "severity"),
		Status:   str(node, "properties", "status"),
	}
	if created := str(node, "properties", "createdTimeUtc"); created != "" {
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			inc.CreatedTimeUTC = t.UTC()
		}
	}
	return inc
}

func parseWorkspace(node jsoniter.Any) domain.WorkspaceInfo {
	return domain.WorkspaceInfo{
		Name:              str(node, "name"),
		ProvisioningState: str(node, "properties", "provisioningState"),
		RetentionInDays:   integer(node, "properties", "retentionInDays"),
		DailyQuotaGB:      float(node, "properties", "workspaceCapping", "dailyQuotaGb"),
	}
}
