package audit

import (
	"github.com/doodlesbykumbi/orchestra-installer/pkg/events"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/installation"
)

// Subscribe records install notifications fired on d through record. The
// returned function unsubscribes.
func Subscribe(d *events.Dispatcher, record func(Event)) func() {
	unsubs := []func(){
		d.Subscribe(events.TopicSchema, func(_ events.Topic, _ interface{}) {
			record(SchemaEvent{})
		}),
		d.Subscribe(events.TopicUser, func(_ events.Topic, payload interface{}) {
			p, ok := payload.(installation.UserCreating)
			if !ok || p.User == nil {
				return
			}
			record(AdministratorEvent{
				Email:    p.User.Email,
				Fullname: p.User.Fullname,
				Status:   p.User.Status.String(),
			})
		}),
		d.Subscribe(events.TopicACL, func(_ events.Topic, payload interface{}) {
			p, ok := payload.(installation.ACLSeeded)
			if !ok || p.ACL == nil {
				return
			}
			state := p.ACL.State()
			record(ACLEvent{Scope: p.ACL.Name(), Roles: state.Roles, Actions: state.Actions})
		}),
	}

	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
