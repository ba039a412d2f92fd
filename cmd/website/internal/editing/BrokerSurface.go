package editing

import (
	"github.com/adampresley/sundayalbum/pkg/pubsub"
)

/*
BrokerSurface drives the detached editor window over the event stream.
Open and close are broadcast; the page listening on the stream opens
the popup (or an in-page overlay when popups are blocked) and closes
it again when told to.
*/
type BrokerSurface struct {
	broker *pubsub.Broker
}

func NewBrokerSurface(broker *pubsub.Broker) BrokerSurface {
	return BrokerSurface{
		broker: broker,
	}
}

func (s BrokerSurface) Open() {
	s.broker.Publish(pubsub.Message{
		Kind:   pubsub.KindEditor,
		Fields: map[string]string{"surface": "open"},
	})
}

func (s BrokerSurface) Close() {
	s.broker.Publish(pubsub.Message{
		Kind:   pubsub.KindEditor,
		Fields: map[string]string{"surface": "close"},
	})
}
