package types

import (
	"encoding/json"
	"strings"

	collcodec "cosmossdk.io/collections/codec"
	errorsmod "cosmossdk.io/errors"

	abci "github.com/cometbft/cometbft/abci/types"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ibcstore/ibc-store/internal/codec"
	ibcerrors "github.com/ibcstore/ibc-store/modules/core/errors"
)

const ErrorAttributeKeySuffix = "-error"

const (
	// EventStandard and EventVersion tag every IBC event notification.
	EventStandard = "ics-ibc"
	EventVersion  = "1.0.0"

	// EventLogPrefix starts the log line carrying an event notification.
	EventLogPrefix = "EVENT_JSON:"
)

// ConvertToErrorEvents converts all events to error events by appending the
// error attribute suffix to each event's attribute key.
func ConvertToErrorEvents(events sdk.Events) sdk.Events {
	if events == nil {
		return nil
	}

	newEvents := make(sdk.Events, len(events))
	for i, event := range events {
		newAttributes := make([]sdk.Attribute, len(event.Attributes))
		for j, attribute := range event.Attributes {
			newAttributes[j] = sdk.NewAttribute(attribute.Key+ErrorAttributeKeySuffix, attribute.Value)
		}

		// no need to append the error attribute suffix to the event type because
		// the event type is not associated to a value that can be misinterpreted
		newEvents[i] = sdk.NewEvent(event.Type, newAttributes...)
	}

	return newEvents
}

// EventEnvelope is the JSON notification emitted for every IBC event.
type EventEnvelope struct {
	Standard string            `json:"standard"`
	Version  string            `json:"version"`
	Event    string            `json:"event"`
	Data     map[string]string `json:"data"`
}

// NewEventEnvelope wraps event in the ics-ibc envelope.
func NewEventEnvelope(event sdk.Event) EventEnvelope {
	data := make(map[string]string, len(event.Attributes))
	for _, attr := range event.Attributes {
		data[attr.Key] = attr.Value
	}
	return EventEnvelope{
		Standard: EventStandard,
		Version:  EventVersion,
		Event:    event.Type,
		Data:     data,
	}
}

// LogLine renders the envelope as an EVENT_JSON log line.
func (e EventEnvelope) LogLine() string {
	bz, err := json.Marshal(e)
	if err != nil {
		panic(err)
	}
	return EventLogPrefix + string(bz)
}

// EventList is the set of IBC events emitted at a single host height.
type EventList []sdk.Event

// Marshal encodes the list using the abci.Event wire layout for each element.
func (l EventList) Marshal() []byte {
	events := make([][]byte, len(l))
	for i, event := range l {
		events[i] = marshalEvent(event)
	}
	return codec.NewEncoder().Messages(1, events).Encoded()
}

// Unmarshal decodes a list encoded by Marshal.
func (l *EventList) Unmarshal(bz []byte) error {
	*l = nil
	return codec.Decode(bz, func(f codec.Field) error {
		if f.Num != 1 {
			return nil
		}
		var event eventMessage
		if err := f.Message(&event); err != nil {
			return err
		}
		*l = append(*l, sdk.Event(event))
		return nil
	})
}

func marshalEvent(event sdk.Event) []byte {
	attributes := make([][]byte, len(event.Attributes))
	for i, attr := range event.Attributes {
		attributes[i] = codec.NewEncoder().
			String(1, attr.Key).
			String(2, attr.Value).
			Bool(3, attr.Index).
			Encoded()
	}
	return codec.NewEncoder().
		String(1, event.Type).
		Messages(2, attributes).
		Encoded()
}

type eventMessage sdk.Event

func (e *eventMessage) Unmarshal(bz []byte) error {
	*e = eventMessage{}
	return codec.Decode(bz, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return f.Text(&e.Type)
		case 2:
			var attr eventAttribute
			if err := f.Message(&attr); err != nil {
				return err
			}
			e.Attributes = append(e.Attributes, abci.EventAttribute(attr))
		}
		return nil
	})
}

type eventAttribute abci.EventAttribute

func (a *eventAttribute) Unmarshal(bz []byte) error {
	*a = eventAttribute{}
	return codec.Decode(bz, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return f.Text(&a.Key)
		case 2:
			return f.Text(&a.Value)
		case 3:
			return f.Bool(&a.Index)
		}
		return nil
	})
}

// EventListValue stores EventLists in collections.
var EventListValue collcodec.ValueCodec[EventList] = eventListValue{}

type eventListValue struct{}

func (eventListValue) Encode(l EventList) ([]byte, error) {
	return l.Marshal(), nil
}

func (eventListValue) Decode(bz []byte) (EventList, error) {
	var l EventList
	if err := l.Unmarshal(bz); err != nil {
		return nil, errorsmod.Wrapf(ibcerrors.ErrDecode, "event list: %v", err)
	}
	return l, nil
}

func (eventListValue) EncodeJSON(l EventList) ([]byte, error) { return json.Marshal(l) }

func (eventListValue) DecodeJSON(bz []byte) (EventList, error) {
	var l EventList
	err := json.Unmarshal(bz, &l)
	return l, err
}

func (eventListValue) Stringify(l EventList) string {
	kinds := make([]string, len(l))
	for i, e := range l {
		kinds[i] = e.Type
	}
	return strings.Join(kinds, ",")
}

func (eventListValue) ValueType() string { return "ibcstore/event_list" }

// HeightEvents is the bucket of IBC events emitted at a host height.
type HeightEvents struct {
	Height uint64
	Events EventList
}
