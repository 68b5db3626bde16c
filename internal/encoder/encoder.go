package encoder

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/graphmint/graphmint/internal/gdm"
	"github.com/graphmint/graphmint/internal/mint"
)

// orderKeySep joins a subject key and predicate URI into the counter key
// for per-(subject, predicate) statement ordering.
const orderKeySep = "::"

type entityFrame struct {
	node      gdm.Node
	predicate *gdm.Predicate
}

// Encoder is the record-to-graph state machine. It consumes the event
// protocol one record at a time and produces one RecordModel per record.
// The zero state is Idle; startRecord opens a record, nested entities push
// and pop an entity stack, endRecord finalizes and resets.
//
// An Encoder is single-threaded: its session caches and per-record counters
// are mutated in place. One instance serves all records of a run; use a
// fresh Session plus Encoder per concurrent run.
type Encoder struct {
	sess *Session

	model          *gdm.Model
	recordURI      string
	recordNode     gdm.Node
	recordClassURI string
	entityStack    []entityFrame
	orders         map[string]int64
	bnodeSeq       int64
	inRecord       bool
}

// New creates an encoder over the given session.
func New(sess *Session) *Encoder {
	return &Encoder{sess: sess}
}

// Consume feeds one event into the state machine. It returns a finalized
// RecordModel when the event closes a record, nil otherwise. A non-nil
// error aborts the current record; the caller decides whether the run
// continues with the next one.
func (e *Encoder) Consume(ev Event) (*gdm.RecordModel, error) {
	switch ev.Kind {
	case EventStartRecord:
		return nil, e.startRecord(ev.Name)
	case EventStartEntity:
		return nil, e.startEntity(ev.Name)
	case EventLiteral:
		return nil, e.literal(ev.Name, ev.Value)
	case EventEndEntity:
		return nil, e.endEntity()
	case EventEndRecord:
		return e.endRecord()
	default:
		return nil, fmt.Errorf("encoding: unknown event kind %d", ev.Kind)
	}
}

// EncodeRecord runs one complete record's events through the encoder and
// returns its model. The events must form exactly one record.
func (e *Encoder) EncodeRecord(events []Event) (*gdm.RecordModel, error) {
	for _, ev := range events {
		rm, err := e.Consume(ev)
		if err != nil {
			return nil, err
		}

		if rm != nil {
			return rm, nil
		}
	}

	return nil, fmt.Errorf("%w: event sequence ended before endRecord", ErrUnbalancedEntity)
}

func (e *Encoder) startRecord(identifier string) error {
	if e.inRecord {
		return ErrRecordAlreadyOpen
	}

	uri := identifier
	if !mint.IsAbsoluteURI(identifier) {
		uri = mint.MintRecordURI(identifier, e.sess.dataModelID)
		e.sess.log.WithFields(logrus.Fields{"identifier": identifier, "uri": uri}).
			Debug("minted record uri")
	}

	e.model = gdm.NewModel()
	e.recordURI = uri
	e.recordNode = gdm.NewResourceNode(uri)
	e.recordClassURI = e.sess.seedRecordClass()
	e.entityStack = e.entityStack[:0]
	e.orders = make(map[string]int64)
	e.bnodeSeq = 0
	e.inRecord = true

	e.model.GetOrCreateResource(e.recordNode)
	e.addStatement(e.recordNode, e.sess.predicate(gdm.RDFType), e.sess.typeNode(e.recordClassURI))

	return nil
}

func (e *Encoder) startEntity(name string) error {
	if !e.inRecord {
		return fmt.Errorf("%w: startEntity(%q)", ErrNoActiveRecord, name)
	}

	pred := e.sess.predicate(name)

	e.bnodeSeq++
	entityNode := gdm.NewBlankNode(e.bnodeSeq)

	e.addStatement(e.subject(), pred, entityNode)

	typeURI := e.sess.termURI(name) + mint.TypeSuffix
	e.addStatement(entityNode, e.sess.predicate(gdm.RDFType), e.sess.typeNode(typeURI))

	e.entityStack = append(e.entityStack, entityFrame{node: entityNode, predicate: pred})

	return nil
}

func (e *Encoder) endEntity() error {
	if !e.inRecord {
		return fmt.Errorf("%w: endEntity", ErrNoActiveRecord)
	}

	if len(e.entityStack) == 0 {
		return fmt.Errorf("%w: endEntity without startEntity", ErrUnbalancedEntity)
	}

	e.entityStack = e.entityStack[:len(e.entityStack)-1]

	return nil
}

func (e *Encoder) literal(name, value string) error {
	if !e.inRecord {
		return fmt.Errorf("%w: literal(%q)", ErrNoActiveRecord, name)
	}

	if name == "" {
		return nil
	}

	// Only non-empty values are emitted.
	if value == "" {
		e.sess.log.WithField("name", name).Trace("skipping empty literal value")

		return nil
	}

	predURI := e.sess.termURI(name)
	subject := e.subject()

	// A type declaration carrying an absolute URI yields a resource object,
	// and on the record root it upgrades the provisional record class.
	if predURI == gdm.RDFType && mint.IsAbsoluteURI(value) {
		typeNode := e.sess.typeNode(value)

		if len(e.entityStack) == 0 {
			e.setRecordClass(value, typeNode)

			return nil
		}

		e.addStatement(subject, e.sess.predicate(gdm.RDFType), typeNode)

		return nil
	}

	e.addStatement(subject, e.sess.predicate(name), gdm.NewLiteralNode(value))

	return nil
}

func (e *Encoder) endRecord() (*gdm.RecordModel, error) {
	if !e.inRecord {
		return nil, fmt.Errorf("%w: endRecord", ErrNoActiveRecord)
	}

	if len(e.entityStack) != 0 {
		return nil, fmt.Errorf("%w: endRecord with %d open entities", ErrUnbalancedEntity, len(e.entityStack))
	}

	rm := gdm.NewRecordModel(e.model, e.recordURI, e.recordClassURI)
	e.sess.paths.AddAll(rm.AttributePaths())

	e.model = nil
	e.recordURI = ""
	e.recordNode = gdm.Node{}
	e.recordClassURI = ""
	e.orders = nil
	e.inRecord = false

	return rm, nil
}

// subject returns the node new statements attach to: the innermost open
// entity, or the record root when no entity is open.
func (e *Encoder) subject() gdm.Node {
	if n := len(e.entityStack); n > 0 {
		return e.entityStack[n-1].node
	}

	return e.recordNode
}

// addStatement appends a statement to the subject's resource, assigning the
// next order value for the (subject, predicate) pair.
func (e *Encoder) addStatement(subject gdm.Node, pred *gdm.Predicate, object gdm.Node) {
	key := subject.Key() + orderKeySep + pred.URI
	e.orders[key]++

	e.model.GetOrCreateResource(subject).AddStatement(gdm.Statement{
		Subject:   subject,
		Predicate: pred,
		Object:    object,
		Order:     e.orders[key],
	})
}

// setRecordClass replaces the provisional type statement on the record root
// with the class declared by the source record and propagates it to the
// session so subsequent records of the run share it.
func (e *Encoder) setRecordClass(classURI string, typeNode gdm.Node) {
	e.recordClassURI = classURI
	e.sess.upgradeRecordClass(classURI)

	root := e.model.Resource(e.recordNode.Key())
	for i := range root.Statements {
		if root.Statements[i].Predicate.URI == gdm.RDFType {
			root.Statements[i].Object = typeNode

			return
		}
	}
}
