package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// This file hand-rolls the protobuf encoding for the Call/Event schema
// using the low-level protowire primitives rather than protoc-generated
// proto.Message types: there is no .proto source to compile in this
// module, and shipping hand-written generated code would misrepresent
// where it came from. protowire gives us the real wire format (varints,
// length-delimited fields, tags) without inventing a descriptor.
//
// Field numbers below are load-bearing wire contract, not incidental:
//
//	Call:               1=type 2=resource_provider_id 3=subscribe
//	                    4=update_offer_operation_status 5=update_state
//	                    6=update_publish_resources_status
//	CallSubscribe:      1=resource_provider_info
//	ProviderInfo:       1=type 2=name 3=id
//	CallUpdateOfferOperationStatus: 1=framework_id 2=status 3=operation_uuid 4=latest_status
//	OfferOperationStatus: 1=state 2=raw
//	CallUpdateState:    1=resource_version_uuid 2=resources 3=operations
//	Resource:           1=provider_id 2=raw
//	OfferOperation:     1=operation_uuid 2=info
//	OfferOperationInfo: 1=id 2=provider_id 3=raw
//	CallUpdatePublishResourcesStatus: 1=uuid 2=status
//	Event:              1=type 2=subscribed 3=apply_offer_operation
//	                    4=acknowledge_offer_operation 5=reconcile_offer_operations
//	                    6=publish_resources
//	EventSubscribed:    1=provider_id
//	EventApplyOfferOperation: 1=framework_id 2=info 3=operation_uuid 4=resource_version_uuid
//	EventAcknowledgeOfferOperation: 1=status_uuid 2=operation_uuid
//	EventReconcileOfferOperations: 1=operation_uuids (repeated)
//	EventPublishResources: 1=uuid 2=resources (repeated)

var callTypeToNum = map[CallType]uint64{
	CallTypeUnknown:                      0,
	CallTypeSubscribe:                    1,
	CallTypeUpdateOfferOperationStatus:   2,
	CallTypeUpdateState:                  3,
	CallTypeUpdatePublishResourcesStatus: 4,
}

var numToCallType = func() map[uint64]CallType {
	m := make(map[uint64]CallType, len(callTypeToNum))
	for k, v := range callTypeToNum {
		m[v] = k
	}
	return m
}()

var eventTypeToNum = map[EventType]uint64{
	EventTypeUnknown:                   0,
	EventTypeSubscribed:                1,
	EventTypeApplyOfferOperation:       2,
	EventTypeAcknowledgeOfferOperation: 3,
	EventTypeReconcileOfferOperations:  4,
	EventTypePublishResources:          5,
}

var numToEventType = func() map[uint64]EventType {
	m := make(map[uint64]EventType, len(eventTypeToNum))
	for k, v := range eventTypeToNum {
		m[v] = k
	}
	return m
}()

var publishStatusToNum = map[PublishStatus]uint64{
	PublishStatusUnknown: 0,
	PublishStatusOK:      1,
	PublishStatusFailed:  2,
}

var numToPublishStatus = func() map[uint64]PublishStatus {
	m := make(map[uint64]PublishStatus, len(publishStatusToNum))
	for k, v := range publishStatusToNum {
		m[v] = k
	}
	return m
}()

// rawField holds one decoded field's payload prior to schema-aware
// dispatch: v is populated for varint fields, b for length-delimited
// fields (strings, bytes, embedded messages).
type rawField struct {
	num protowire.Number
	typ protowire.Type
	v   uint64
	b   []byte
}

func parseFields(b []byte) ([]rawField, error) {
	var fields []rawField
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("protobuf: invalid tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("protobuf: invalid varint field %d: %w", num, protowire.ParseError(n))
			}
			fields = append(fields, rawField{num: num, typ: typ, v: v})
			b = b[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("protobuf: invalid bytes field %d: %w", num, protowire.ParseError(n))
			}
			fields = append(fields, rawField{num: num, typ: typ, b: v})
			b = b[n:]
		case protowire.Fixed32Type:
			_, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return nil, fmt.Errorf("protobuf: invalid fixed32 field %d", num)
			}
			b = b[n:]
		case protowire.Fixed64Type:
			_, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return nil, fmt.Errorf("protobuf: invalid fixed64 field %d", num)
			}
			b = b[n:]
		default:
			return nil, fmt.Errorf("protobuf: unsupported wire type %v for field %d", typ, num)
		}
	}
	return fields, nil
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendStringField(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendMessageField(b []byte, num protowire.Number, msg []byte) []byte {
	if msg == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// --- ProviderInfo ---

func marshalProviderInfo(p ProviderInfo) []byte {
	var b []byte
	b = appendStringField(b, 1, p.Type)
	b = appendStringField(b, 2, p.Name)
	b = appendStringField(b, 3, p.ID)
	return b
}

func unmarshalProviderInfo(data []byte) (ProviderInfo, error) {
	fields, err := parseFields(data)
	if err != nil {
		return ProviderInfo{}, err
	}
	var p ProviderInfo
	for _, f := range fields {
		switch f.num {
		case 1:
			p.Type = string(f.b)
		case 2:
			p.Name = string(f.b)
		case 3:
			p.ID = string(f.b)
		}
	}
	return p, nil
}

// --- OfferOperationStatus ---

func marshalOfferOperationStatus(s OfferOperationStatus) []byte {
	var b []byte
	b = appendStringField(b, 1, s.State)
	b = appendBytesField(b, 2, s.Raw)
	return b
}

func unmarshalOfferOperationStatus(data []byte) (OfferOperationStatus, error) {
	fields, err := parseFields(data)
	if err != nil {
		return OfferOperationStatus{}, err
	}
	var s OfferOperationStatus
	for _, f := range fields {
		switch f.num {
		case 1:
			s.State = string(f.b)
		case 2:
			s.Raw = f.b
		}
	}
	return s, nil
}

// --- OfferOperationInfo ---

func marshalOfferOperationInfo(i OfferOperationInfo) []byte {
	var b []byte
	b = appendStringField(b, 1, i.ID)
	b = appendStringField(b, 2, i.ProviderID)
	b = appendBytesField(b, 3, i.Raw)
	return b
}

func unmarshalOfferOperationInfo(data []byte) (OfferOperationInfo, error) {
	fields, err := parseFields(data)
	if err != nil {
		return OfferOperationInfo{}, err
	}
	var i OfferOperationInfo
	for _, f := range fields {
		switch f.num {
		case 1:
			i.ID = string(f.b)
		case 2:
			i.ProviderID = string(f.b)
		case 3:
			i.Raw = f.b
		}
	}
	return i, nil
}

// --- Resource ---

func marshalResource(r Resource) []byte {
	var b []byte
	b = appendStringField(b, 1, r.ProviderID)
	b = appendBytesField(b, 2, r.Raw)
	return b
}

func unmarshalResource(data []byte) (Resource, error) {
	fields, err := parseFields(data)
	if err != nil {
		return Resource{}, err
	}
	var r Resource
	for _, f := range fields {
		switch f.num {
		case 1:
			r.ProviderID = string(f.b)
		case 2:
			r.Raw = f.b
		}
	}
	return r, nil
}

// --- OfferOperation ---

func marshalOfferOperation(o OfferOperation) []byte {
	var b []byte
	b = appendBytesField(b, 1, o.OperationUUID)
	b = appendMessageField(b, 2, marshalOfferOperationInfo(o.Info))
	return b
}

func unmarshalOfferOperation(data []byte) (OfferOperation, error) {
	fields, err := parseFields(data)
	if err != nil {
		return OfferOperation{}, err
	}
	var o OfferOperation
	for _, f := range fields {
		switch f.num {
		case 1:
			o.OperationUUID = f.b
		case 2:
			info, err := unmarshalOfferOperationInfo(f.b)
			if err != nil {
				return OfferOperation{}, err
			}
			o.Info = info
		}
	}
	return o, nil
}

// --- Call ---

func marshalCallProto(c *Call) []byte {
	var b []byte
	b = appendVarintField(b, 1, callTypeToNum[c.Type])
	b = appendStringField(b, 2, c.ResourceProviderID)
	if c.Subscribe != nil {
		var sub []byte
		sub = appendMessageField(sub, 1, marshalProviderInfo(c.Subscribe.ResourceProviderInfo))
		b = appendMessageField(b, 3, sub)
	}
	if c.UpdateOfferOperationStatus != nil {
		u := c.UpdateOfferOperationStatus
		var m []byte
		m = appendStringField(m, 1, u.FrameworkID)
		m = appendMessageField(m, 2, marshalOfferOperationStatus(u.Status))
		m = appendBytesField(m, 3, u.OperationUUID)
		if u.LatestStatus != nil {
			m = appendMessageField(m, 4, marshalOfferOperationStatus(*u.LatestStatus))
		}
		b = appendMessageField(b, 4, m)
	}
	if c.UpdateState != nil {
		u := c.UpdateState
		var m []byte
		m = appendBytesField(m, 1, u.ResourceVersionUUID)
		for _, r := range u.Resources {
			m = appendMessageField(m, 2, marshalResource(r))
		}
		for _, o := range u.Operations {
			m = appendMessageField(m, 3, marshalOfferOperation(o))
		}
		b = appendMessageField(b, 5, m)
	}
	if c.UpdatePublishResourcesStatus != nil {
		u := c.UpdatePublishResourcesStatus
		var m []byte
		m = appendBytesField(m, 1, u.UUID)
		m = appendVarintField(m, 2, publishStatusToNum[u.Status])
		b = appendMessageField(b, 6, m)
	}
	return b
}

func unmarshalCallProto(data []byte) (*Call, error) {
	fields, err := parseFields(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal protobuf call: %w", err)
	}
	c := &Call{Type: CallTypeUnknown}
	for _, f := range fields {
		switch f.num {
		case 1:
			c.Type = numToCallType[f.v]
		case 2:
			c.ResourceProviderID = string(f.b)
		case 3:
			subFields, err := parseFields(f.b)
			if err != nil {
				return nil, err
			}
			sub := &CallSubscribe{}
			for _, sf := range subFields {
				if sf.num == 1 {
					info, err := unmarshalProviderInfo(sf.b)
					if err != nil {
						return nil, err
					}
					sub.ResourceProviderInfo = info
				}
			}
			c.Subscribe = sub
		case 4:
			uFields, err := parseFields(f.b)
			if err != nil {
				return nil, err
			}
			u := &CallUpdateOfferOperationStatus{}
			for _, uf := range uFields {
				switch uf.num {
				case 1:
					u.FrameworkID = string(uf.b)
				case 2:
					s, err := unmarshalOfferOperationStatus(uf.b)
					if err != nil {
						return nil, err
					}
					u.Status = s
				case 3:
					u.OperationUUID = uf.b
				case 4:
					s, err := unmarshalOfferOperationStatus(uf.b)
					if err != nil {
						return nil, err
					}
					u.LatestStatus = &s
				}
			}
			c.UpdateOfferOperationStatus = u
		case 5:
			uFields, err := parseFields(f.b)
			if err != nil {
				return nil, err
			}
			u := &CallUpdateState{}
			for _, uf := range uFields {
				switch uf.num {
				case 1:
					u.ResourceVersionUUID = uf.b
				case 2:
					r, err := unmarshalResource(uf.b)
					if err != nil {
						return nil, err
					}
					u.Resources = append(u.Resources, r)
				case 3:
					o, err := unmarshalOfferOperation(uf.b)
					if err != nil {
						return nil, err
					}
					u.Operations = append(u.Operations, o)
				}
			}
			c.UpdateState = u
		case 6:
			uFields, err := parseFields(f.b)
			if err != nil {
				return nil, err
			}
			u := &CallUpdatePublishResourcesStatus{}
			for _, uf := range uFields {
				switch uf.num {
				case 1:
					u.UUID = uf.b
				case 2:
					u.Status = numToPublishStatus[uf.v]
				}
			}
			c.UpdatePublishResourcesStatus = u
		}
	}
	return c, nil
}

// --- Event ---

func marshalEventProto(e *Event) []byte {
	var b []byte
	b = appendVarintField(b, 1, eventTypeToNum[e.Type])
	if e.Subscribed != nil {
		var m []byte
		m = appendStringField(m, 1, e.Subscribed.ProviderID)
		b = appendMessageField(b, 2, m)
	}
	if e.ApplyOfferOperation != nil {
		a := e.ApplyOfferOperation
		var m []byte
		m = appendStringField(m, 1, a.FrameworkID)
		m = appendMessageField(m, 2, marshalOfferOperationInfo(a.Info))
		m = appendBytesField(m, 3, a.OperationUUID)
		m = appendBytesField(m, 4, a.ResourceVersionUUID)
		b = appendMessageField(b, 3, m)
	}
	if e.AcknowledgeOfferOperation != nil {
		a := e.AcknowledgeOfferOperation
		var m []byte
		m = appendBytesField(m, 1, a.StatusUUID)
		m = appendBytesField(m, 2, a.OperationUUID)
		b = appendMessageField(b, 4, m)
	}
	if e.ReconcileOfferOperations != nil {
		var m []byte
		for _, u := range e.ReconcileOfferOperations.OperationUUIDs {
			m = appendBytesField(m, 1, u)
		}
		b = appendMessageField(b, 5, m)
	}
	if e.PublishResources != nil {
		p := e.PublishResources
		var m []byte
		m = appendBytesField(m, 1, p.UUID)
		for _, r := range p.Resources {
			m = appendMessageField(m, 2, marshalResource(r))
		}
		b = appendMessageField(b, 6, m)
	}
	return b
}

func unmarshalEventProto(data []byte) (*Event, error) {
	fields, err := parseFields(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal protobuf event: %w", err)
	}
	e := &Event{Type: EventTypeUnknown}
	for _, f := range fields {
		switch f.num {
		case 1:
			e.Type = numToEventType[f.v]
		case 2:
			sFields, err := parseFields(f.b)
			if err != nil {
				return nil, err
			}
			s := &EventSubscribed{}
			for _, sf := range sFields {
				if sf.num == 1 {
					s.ProviderID = string(sf.b)
				}
			}
			e.Subscribed = s
		case 3:
			aFields, err := parseFields(f.b)
			if err != nil {
				return nil, err
			}
			a := &EventApplyOfferOperation{}
			for _, af := range aFields {
				switch af.num {
				case 1:
					a.FrameworkID = string(af.b)
				case 2:
					info, err := unmarshalOfferOperationInfo(af.b)
					if err != nil {
						return nil, err
					}
					a.Info = info
				case 3:
					a.OperationUUID = af.b
				case 4:
					a.ResourceVersionUUID = af.b
				}
			}
			e.ApplyOfferOperation = a
		case 4:
			aFields, err := parseFields(f.b)
			if err != nil {
				return nil, err
			}
			a := &EventAcknowledgeOfferOperation{}
			for _, af := range aFields {
				switch af.num {
				case 1:
					a.StatusUUID = af.b
				case 2:
					a.OperationUUID = af.b
				}
			}
			e.AcknowledgeOfferOperation = a
		case 5:
			rFields, err := parseFields(f.b)
			if err != nil {
				return nil, err
			}
			r := &EventReconcileOfferOperations{}
			for _, rf := range rFields {
				if rf.num == 1 {
					r.OperationUUIDs = append(r.OperationUUIDs, rf.b)
				}
			}
			e.ReconcileOfferOperations = r
		case 6:
			pFields, err := parseFields(f.b)
			if err != nil {
				return nil, err
			}
			p := &EventPublishResources{}
			for _, pf := range pFields {
				switch pf.num {
				case 1:
					p.UUID = pf.b
				case 2:
					r, err := unmarshalResource(pf.b)
					if err != nil {
						return nil, err
					}
					p.Resources = append(p.Resources, r)
				}
			}
			e.PublishResources = p
		}
	}
	return e, nil
}
