package audit

import (
	"fmt"
	"strings"
)

// SchemaEvent records the foundation migrations being applied
type SchemaEvent struct{}

func (e SchemaEvent) MessageID() string { return "install-schema" }

func (e SchemaEvent) Message() string { return "installer applied the foundation schema" }

func (e SchemaEvent) Severity() Severity { return SeverityNotice }

func (e SchemaEvent) Facility() int { return FacilityLocal0 }

func (e SchemaEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAction: {"operation": "migrate"},
	}
}

// AdministratorEvent records the administrator account being created
type AdministratorEvent struct {
	Email    string
	Fullname string
	Status   string
}

func (e AdministratorEvent) MessageID() string { return "install-user" }

func (e AdministratorEvent) Message() string {
	return fmt.Sprintf("installer is creating administrator %s", e.Email)
}

func (e AdministratorEvent) Severity() Severity { return SeverityNotice }

func (e AdministratorEvent) Facility() int { return FacilityAuthPriv }

func (e AdministratorEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"user":   e.Email,
			"status": e.Status,
		},
		SDIDAction: {"operation": "create"},
	}
}

// ACLEvent records the grants seeded for an ACL scope
type ACLEvent struct {
	Scope   string
	Roles   []string
	Actions []string
}

func (e ACLEvent) MessageID() string { return "install-acl" }

func (e ACLEvent) Message() string {
	return fmt.Sprintf("installer seeded acl %s with %d action(s) for %d role(s)", e.Scope, len(e.Actions), len(e.Roles))
}

func (e ACLEvent) Severity() Severity { return SeverityNotice }

func (e ACLEvent) Facility() int { return FacilityAuth }

func (e ACLEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDInstall: {
			"acl":     e.Scope,
			"roles":   strings.Join(e.Roles, ","),
			"actions": strings.Join(e.Actions, ","),
		},
		SDIDAction: {"operation": "grant"},
	}
}
