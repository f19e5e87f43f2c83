// Package audit provides audit logging for installer operations.
//
// Security-relevant install steps (schema migration, administrator
// creation, ACL seeding) are written as RFC5424 syslog records and, when
// ORCHESTRA_AUDIT_DATABASE_URL is set, persisted to the messages table
// with one row per install step.
//
// # Usage
//
//	unsubscribe := audit.Subscribe(inst.Events(), audit.Log)
//	defer unsubscribe()
//
// Events arrive through the dispatcher's asynchronous hub, so recording
// never blocks or fails an install step.
package audit
