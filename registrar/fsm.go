// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package registrar drives the commit-reveal registration of zonemap names
// as a finite state machine. A registration commits the blinded label, waits
// out the maturity buffer on a single timer, then mints and verifies the
// entry. Entries under an already-controlled parent mint directly through
// the parent's account.
package registrar

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/facebookgo/clock"
	fsm "github.com/iotexproject/go-fsm"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/zonemapproject/zonemap-core/chain"
	"github.com/zonemapproject/zonemap-core/db"
	"github.com/zonemapproject/zonemap-core/pkg/lifecycle"
	"github.com/zonemapproject/zonemap-core/pkg/log"
	"github.com/zonemapproject/zonemap-core/tba"
	"github.com/zonemapproject/zonemap-core/wallet"
	"github.com/zonemapproject/zonemap-core/zonemap"
	"github.com/zonemapproject/zonemap-core/zns"
)

var _registrarMtc = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "zonemap_registrar_metrics",
		Help: "Registrar stats",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(_registrarMtc)
}

const (
	// registration states
	StateIdle             fsm.State = "S_IDLE"
	StateCommitting       fsm.State = "S_COMMITTING"
	StateAwaitingMaturity fsm.State = "S_AWAITING_MATURITY"
	StateMinting          fsm.State = "S_MINTING"
	StateDone             fsm.State = "S_DONE"
	StateFailed           fsm.State = "S_FAILED"

	// registration event types
	eSubmit           fsm.EventType = "E_SUBMIT"
	eSubmitAuthorized fsm.EventType = "E_SUBMIT_AUTHORIZED"
	eCommitConfirmed  fsm.EventType = "E_COMMIT_CONFIRMED"
	eMatured          fsm.EventType = "E_MATURED"
	eMintConfirmed    fsm.EventType = "E_MINT_CONFIRMED"
	eFail             fsm.EventType = "E_FAIL"

	// BackdoorEvent indicates a backdoor event type
	BackdoorEvent fsm.EventType = "E_BACKDOOR"
)

var (
	// ErrEvtCast indicates the error of casting the event
	ErrEvtCast = errors.New("error when casting the event")
	// ErrEvtConvert indicates the error of converting the event data
	ErrEvtConvert = errors.New("error when converting the event data")
	// ErrInFlight indicates a registration is already in flight
	ErrInFlight = errors.New("a registration is already in flight")
	// ErrParentNotFound indicates the parent entry of a direct mint does not exist
	ErrParentNotFound = errors.New("parent entry not registered")

	// registrationStates is a slice consisting of all registration states
	registrationStates = []fsm.State{
		StateIdle,
		StateCommitting,
		StateAwaitingMaturity,
		StateMinting,
		StateDone,
		StateFailed,
	}
)

// registrationEvent is an event handled by the registration FSM
type registrationEvent struct {
	eventType fsm.EventType
	data      interface{}
}

// Type returns the event type
func (e *registrationEvent) Type() fsm.EventType { return e.eventType }

// Data returns the data payload of the event
func (e *registrationEvent) Data() interface{} { return e.data }

type (
	// ChainClient is the execution surface the registrar drives
	ChainClient interface {
		ChainID() uint64
		Signer() wallet.Signer
		SendCall(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Transaction, error)
		WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
		WaitReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
		Read(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	}

	// Deployment pins the contract addresses one registrar instance talks to
	Deployment struct {
		// Registry is the zonemap registry
		Registry common.Address `yaml:"registry"`
		// ZoneRegistrar is the registrar minting direct children of the zone
		ZoneRegistrar common.Address `yaml:"zoneRegistrar"`
		// AccountRegistry is the token-bound account registry
		AccountRegistry common.Address `yaml:"accountRegistry"`
		// Implementation is the default entry implementation
		Implementation common.Address `yaml:"implementation"`
	}

	// SubmitRequest carries the user's side of a registration
	SubmitRequest struct {
		// Name is the dotted name to register
		Name string
		// Networking is the networking profile of the fresh entry
		Networking zonemap.NetworkingConfig
		// Implementation overrides the default entry implementation
		Implementation common.Address
		// ERC721Data is handed opaquely to the mint callback
		ERC721Data []byte
	}

	// Registrar runs registration flows, one at a time
	Registrar struct {
		fsm        fsm.FSM
		evtq       chan *registrationEvent
		close      chan interface{}
		clock      clock.Clock
		cfg        Config
		deployment Deployment
		client     ChainClient
		store      *SessionStore
		predictor  *tba.Predictor
		lifecycle  lifecycle.Lifecycle
		wg         sync.WaitGroup
		runCtx     context.Context
		cancel     context.CancelFunc

		mutex   sync.RWMutex
		session *RegistrationSession
	}
)

// NewRegistrar creates a registrar on a chain client and a session KV store
func NewRegistrar(cfg Config, deployment Deployment, client ChainClient, kv db.KVStore, c clock.Clock) (*Registrar, error) {
	r := &Registrar{
		evtq:       make(chan *registrationEvent, cfg.EventChanSize),
		close:      make(chan interface{}),
		clock:      c,
		cfg:        cfg,
		deployment: deployment,
		client:     client,
		store:      NewSessionStore(kv),
		predictor:  tba.NewPredictor(deployment.Registry, deployment.AccountRegistry, client.ChainID()),
	}
	r.lifecycle.Add(kv)
	b := fsm.NewBuilder().
		AddInitialState(StateIdle).
		AddStates(
			StateCommitting,
			StateAwaitingMaturity,
			StateMinting,
			StateDone,
			StateFailed,
		).
		AddTransition(StateCommitting, eCommitConfirmed, r.handleCommitConfirmed, []fsm.State{
			StateAwaitingMaturity,
		}).
		AddTransition(StateCommitting, eFail, r.handleFail, []fsm.State{StateFailed}).
		AddTransition(StateAwaitingMaturity, eMatured, r.handleMatured, []fsm.State{
			StateMinting, // mint sent
			StateFailed,  // could not build the mint call
		}).
		AddTransition(StateAwaitingMaturity, eFail, r.handleFail, []fsm.State{StateFailed}).
		AddTransition(StateMinting, eMintConfirmed, r.handleMintConfirmed, []fsm.State{
			StateDone,   // minted entry matches the prediction
			StateFailed, // verification failed
		}).
		AddTransition(StateMinting, eFail, r.handleFail, []fsm.State{StateFailed})
	// a fresh submission is accepted from idle and from both terminal states
	for _, state := range []fsm.State{StateIdle, StateDone, StateFailed} {
		b = b.AddTransition(state, eSubmit, r.handleSubmit, []fsm.State{StateCommitting}).
			AddTransition(state, eSubmitAuthorized, r.handleSubmitAuthorized, []fsm.State{
				StateMinting,
				StateFailed,
			})
	}
	// Add the backdoor transition so that we could unit test the transition from any given state
	for _, state := range registrationStates {
		b = b.AddTransition(state, BackdoorEvent, r.handleBackdoorEvt, registrationStates)
	}
	m, err := b.Build()
	if err != nil {
		return nil, errors.Wrap(err, "error when building the FSM")
	}
	r.fsm = m
	return r, nil
}

// Start restores any interrupted flow and starts the event loop
func (r *Registrar) Start(ctx context.Context) error {
	if err := r.lifecycle.OnStart(ctx); err != nil {
		return errors.Wrap(err, "failed to start the session store")
	}
	r.runCtx, r.cancel = context.WithCancel(context.Background())
	if err := r.resume(); err != nil {
		return err
	}
	r.wg.Add(1)
	go r.loop()
	return nil
}

// Stop stops the registrar
func (r *Registrar) Stop(ctx context.Context) error {
	close(r.close)
	r.cancel()
	r.wg.Wait()
	return r.lifecycle.OnStop(ctx)
}

// CurrentState returns the current state
func (r *Registrar) CurrentState() fsm.State {
	return r.fsm.CurrentState()
}

// NumPendingEvents returns the number of pending events
func (r *Registrar) NumPendingEvents() int {
	return len(r.evtq)
}

// Session returns a copy of the session in flight, nil when there is none
func (r *Registrar) Session() *RegistrationSession {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if r.session == nil {
		return nil
	}
	return r.session.clone()
}

// Submit starts a commit-reveal registration of a name
func (r *Registrar) Submit(req *SubmitRequest) (*RegistrationSession, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	session, err := r.prepareSession(req)
	if err != nil {
		return nil, err
	}
	r.produce(r.newEvent(eSubmit, session), 0)
	return session.clone(), nil
}

// SubmitAuthorized mints a name under a parent entry the signer already
// controls, skipping commit and maturity
func (r *Registrar) SubmitAuthorized(ctx context.Context, req *SubmitRequest) (*RegistrationSession, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	session, err := r.prepareSession(req)
	if err != nil {
		return nil, err
	}
	parent := strings.SplitN(session.Name, ".", 2)[1]
	parentNode, err := zns.Namehash(parent)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid parent name %s", parent)
	}
	getData, err := zonemap.EncodeGet(parentNode)
	if err != nil {
		return nil, err
	}
	ret, err := r.client.Read(ctx, r.deployment.Registry, getData)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to look up parent %s", parent)
	}
	record, err := zonemap.DecodeGetResult(ret)
	if err != nil {
		return nil, err
	}
	if !record.Exists() {
		return nil, errors.Wrapf(ErrParentNotFound, "parent = %s", parent)
	}
	session.Direct = true
	session.ParentTBA = record.TBA
	r.produce(r.newEvent(eSubmitAuthorized, session), 0)
	return session.clone(), nil
}

func (r *Registrar) ready() error {
	switch r.fsm.CurrentState() {
	case StateIdle, StateDone, StateFailed:
		return nil
	default:
		return ErrInFlight
	}
}

func (r *Registrar) prepareSession(req *SubmitRequest) (*RegistrationSession, error) {
	if req == nil {
		return nil, errors.New("nil submit request")
	}
	name, err := zns.Normalize(req.Name)
	if err != nil {
		return nil, err
	}
	node, err := zns.Namehash(name)
	if err != nil {
		return nil, err
	}
	labels := strings.Split(name, ".")
	// zone membership itself is enforced on chain, only the shape is local
	if len(labels) < 2 {
		return nil, errors.Errorf("name %s has no zone", name)
	}
	if err := req.Networking.Validate(); err != nil {
		return nil, err
	}
	implementation := req.Implementation
	if implementation == (common.Address{}) {
		implementation = r.deployment.Implementation
	}
	claimant := r.client.Signer().Address()
	return &RegistrationSession{
		Name:           name,
		Label:          labels[0],
		Node:           common.Hash(node),
		Claimant:       claimant,
		Implementation: implementation,
		Networking:     req.Networking,
		ERC721Data:     append([]byte(nil), req.ERC721Data...),
		Commitment:     common.Hash(zonemap.Commitment(labels[0], claimant)),
		PredictedTBA:   r.predictor.AccountAddress(node),
		State:          string(StateIdle),
	}, nil
}

// resume restores the latest non-terminal session and schedules its
// continuation
func (r *Registrar) resume() error {
	sessions, err := r.store.All()
	if err != nil {
		return errors.Wrap(err, "failed to load stored sessions")
	}
	var active *RegistrationSession
	for _, session := range sessions {
		if session.Terminal() {
			continue
		}
		if active == nil {
			active = session
			continue
		}
		skipped := session
		if session.UpdatedAt.After(active.UpdatedAt) {
			skipped, active = active, session
		}
		log.L().Warn("More than one session in flight, resuming the latest.",
			zap.String("skipped", skipped.Name))
	}
	if active == nil {
		return nil
	}
	r.session = active
	if err := r.fsm.Handle(r.newEvent(BackdoorEvent, fsm.State(active.State))); err != nil {
		return errors.Wrapf(err, "failed to restore state %s", active.State)
	}
	log.L().Info("Resuming registration.",
		zap.String("name", active.Name),
		zap.String("state", active.State))
	switch fsm.State(active.State) {
	case StateCommitting:
		if active.CommitTxHash != (common.Hash{}) {
			r.asyncWaitTx(active.CommitTxHash, eCommitConfirmed)
			break
		}
		// the commit never went out, send it again
		commitData, err := zonemap.EncodeCommit(hash.Hash256(active.Commitment))
		if err != nil {
			return err
		}
		r.asyncSend(r.deployment.ZoneRegistrar, commitData, eCommitConfirmed)
	case StateAwaitingMaturity:
		remaining := r.cfg.MaturityBuffer - r.clock.Now().Sub(active.CommittedAt)
		if remaining < 0 {
			remaining = 0
		}
		log.L().Info("Rescheduling maturity timer.", zap.Duration("remaining", remaining))
		r.produce(r.newEvent(eMatured, nil), remaining)
	case StateMinting:
		if active.MintTxHash != (common.Hash{}) {
			r.asyncWaitTx(active.MintTxHash, eMintConfirmed)
			break
		}
		to, data, err := r.mintCall(active)
		if err != nil {
			return err
		}
		r.asyncSend(to, data, eMintConfirmed)
	}
	return nil
}

func (r *Registrar) loop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.close:
			return
		case evt := <-r.evtq:
			src := r.fsm.CurrentState()
			if err := r.fsm.Handle(evt); err != nil {
				if errors.Cause(err) == fsm.ErrTransitionNotFound {
					log.L().Debug("Event not expected in current state.",
						zap.String("state", string(src)),
						zap.String("evt", string(evt.Type())))
					continue
				}
				log.L().Error("Registration state transition fails.",
					zap.String("state", string(src)),
					zap.String("evt", string(evt.Type())),
					zap.Error(err))
				continue
			}
			dst := r.fsm.CurrentState()
			if src != dst {
				log.L().Debug("Registration state transition.",
					zap.String("src", string(src)),
					zap.String("dst", string(dst)),
					zap.String("evt", string(evt.Type())))
			}
		}
	}
}

func (r *Registrar) newEvent(et fsm.EventType, data interface{}) *registrationEvent {
	return &registrationEvent{eventType: et, data: data}
}

// produce adds an event into the queue for the FSM to process, after delay
// when one is given
func (r *Registrar) produce(evt *registrationEvent, delay time.Duration) {
	if delay > 0 {
		// arm the timer here so the wait starts now, not when the
		// goroutine gets scheduled
		fire := r.clock.After(delay)
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			select {
			case <-r.close:
			case <-fire:
				select {
				case <-r.close:
				case r.evtq <- evt:
				}
			}
		}()
		return
	}
	select {
	case <-r.close:
	case r.evtq <- evt:
	}
}

func (r *Registrar) handleSubmit(evt fsm.Event) (fsm.State, error) {
	session, err := r.sessionOfEvent(evt)
	if err != nil {
		return StateIdle, err
	}
	commitData, err := zonemap.EncodeCommit(hash.Hash256(session.Commitment))
	if err != nil {
		return StateIdle, errors.Wrap(err, "failed to encode commit")
	}
	r.mutex.Lock()
	r.session = session
	session.setState(StateCommitting)
	r.saveSessionLocked()
	r.mutex.Unlock()
	log.L().Info("Submitting commitment.",
		zap.String("name", session.Name),
		zap.String("commitment", session.Commitment.Hex()))
	r.asyncSend(r.deployment.ZoneRegistrar, commitData, eCommitConfirmed)
	return StateCommitting, nil
}

func (r *Registrar) handleSubmitAuthorized(evt fsm.Event) (fsm.State, error) {
	session, err := r.sessionOfEvent(evt)
	if err != nil {
		return StateIdle, err
	}
	r.mutex.Lock()
	r.session = session
	session.setState(StateMinting)
	r.saveSessionLocked()
	r.mutex.Unlock()
	to, data, err := r.mintCall(session)
	if err != nil {
		r.failSession(err)
		return StateFailed, nil
	}
	log.L().Info("Minting through parent account.",
		zap.String("name", session.Name),
		zap.String("parentTBA", session.ParentTBA.Hex()))
	r.asyncSend(to, data, eMintConfirmed)
	return StateMinting, nil
}

func (r *Registrar) handleCommitConfirmed(evt fsm.Event) (fsm.State, error) {
	receipt, err := r.receiptOfEvent(evt)
	if err != nil {
		return StateCommitting, err
	}
	r.mutex.Lock()
	session := r.session
	if session == nil {
		r.mutex.Unlock()
		return StateCommitting, errors.New("no session in flight")
	}
	session.CommitTxHash = receipt.TxHash
	session.CommittedAt = r.clock.Now()
	session.setState(StateAwaitingMaturity)
	r.saveSessionLocked()
	r.mutex.Unlock()
	_registrarMtc.WithLabelValues("committed").Inc()
	log.L().Info("Commitment confirmed, waiting out the maturity buffer.",
		zap.String("name", session.Name),
		zap.Duration("buffer", r.cfg.MaturityBuffer))
	// the single continuation: one timer, no polling
	r.produce(r.newEvent(eMatured, nil), r.cfg.MaturityBuffer)
	return StateAwaitingMaturity, nil
}

func (r *Registrar) handleMatured(evt fsm.Event) (fsm.State, error) {
	r.mutex.Lock()
	session := r.session
	if session == nil {
		r.mutex.Unlock()
		return StateAwaitingMaturity, errors.New("no session in flight")
	}
	session.setState(StateMinting)
	r.saveSessionLocked()
	r.mutex.Unlock()
	to, data, err := r.mintCall(session)
	if err != nil {
		r.failSession(err)
		return StateFailed, nil
	}
	log.L().Info("Commitment matured, minting.", zap.String("name", session.Name))
	r.asyncSend(to, data, eMintConfirmed)
	return StateMinting, nil
}

func (r *Registrar) handleMintConfirmed(evt fsm.Event) (fsm.State, error) {
	receipt, err := r.receiptOfEvent(evt)
	if err != nil {
		return StateMinting, err
	}
	r.mutex.Lock()
	session := r.session
	if session == nil {
		r.mutex.Unlock()
		return StateMinting, errors.New("no session in flight")
	}
	session.MintTxHash = receipt.TxHash
	r.saveSessionLocked()
	r.mutex.Unlock()
	// read the fresh entry back and hold it against the prediction
	record, err := r.lookup(hash.Hash256(session.Node))
	if err != nil {
		r.failSession(errors.Wrap(err, "failed to verify the minted entry"))
		return StateFailed, nil
	}
	if !record.Exists() {
		r.failSession(errors.Errorf("minted entry %s not found on chain", session.Name))
		return StateFailed, nil
	}
	if record.TBA != session.PredictedTBA {
		r.failSession(errors.Errorf("minted account %s does not match prediction %s",
			record.TBA.Hex(), session.PredictedTBA.Hex()))
		return StateFailed, nil
	}
	r.mutex.Lock()
	session.setState(StateDone)
	r.saveSessionLocked()
	r.mutex.Unlock()
	_registrarMtc.WithLabelValues("minted").Inc()
	log.L().Info("Name registered.",
		zap.String("name", session.Name),
		zap.String("tba", record.TBA.Hex()))
	return StateDone, nil
}

func (r *Registrar) handleFail(evt fsm.Event) (fsm.State, error) {
	rEvt, ok := evt.(*registrationEvent)
	if !ok {
		return StateFailed, errors.Wrap(ErrEvtCast, "failed to cast to registration event")
	}
	cause, ok := rEvt.Data().(error)
	if !ok {
		return StateFailed, errors.Wrap(ErrEvtConvert, "invalid data type")
	}
	r.failSession(cause)
	return StateFailed, nil
}

// handleBackdoorEvt takes the dst state from the event and move the FSM into it
func (r *Registrar) handleBackdoorEvt(evt fsm.Event) (fsm.State, error) {
	rEvt, ok := evt.(*registrationEvent)
	if !ok {
		return StateIdle, errors.Wrap(ErrEvtCast, "the event is not a backdoor event")
	}
	dst, ok := rEvt.Data().(fsm.State)
	if !ok {
		return StateIdle, errors.Wrap(ErrEvtConvert, "the data is not a state")
	}
	return dst, nil
}

func (r *Registrar) sessionOfEvent(evt fsm.Event) (*RegistrationSession, error) {
	rEvt, ok := evt.(*registrationEvent)
	if !ok {
		return nil, errors.Wrap(ErrEvtCast, "failed to cast to registration event")
	}
	session, ok := rEvt.Data().(*RegistrationSession)
	if !ok {
		return nil, errors.Wrap(ErrEvtConvert, "invalid data type")
	}
	return session, nil
}

func (r *Registrar) receiptOfEvent(evt fsm.Event) (*types.Receipt, error) {
	rEvt, ok := evt.(*registrationEvent)
	if !ok {
		return nil, errors.Wrap(ErrEvtCast, "failed to cast to registration event")
	}
	receipt, ok := rEvt.Data().(*types.Receipt)
	if !ok {
		return nil, errors.Wrap(ErrEvtConvert, "invalid data type")
	}
	return receipt, nil
}

// mintCall builds the mint transaction of a session: through the zone
// registrar for a committed flow, through the parent account for a direct one
func (r *Registrar) mintCall(session *RegistrationSession) (common.Address, []byte, error) {
	initCalls, err := session.Networking.InitCalls(r.deployment.Registry)
	if err != nil {
		return common.Address{}, nil, errors.Wrap(err, "failed to encode init calls")
	}
	if session.Direct {
		entryMint, err := zonemap.EncodeEntryMint(session.Claimant, session.Label, initCalls, session.Implementation)
		if err != nil {
			return common.Address{}, nil, errors.Wrap(err, "failed to encode entry mint")
		}
		execData, err := zonemap.EncodeExecute(r.deployment.Registry, nil, entryMint, zonemap.CallOperation)
		if err != nil {
			return common.Address{}, nil, errors.Wrap(err, "failed to encode execute")
		}
		return session.ParentTBA, execData, nil
	}
	mintData, err := zonemap.EncodeRegistrarMint(
		session.Claimant, session.Label, initCalls, session.ERC721Data, session.Implementation)
	if err != nil {
		return common.Address{}, nil, errors.Wrap(err, "failed to encode mint")
	}
	return r.deployment.ZoneRegistrar, mintData, nil
}

func (r *Registrar) lookup(node hash.Hash256) (zonemap.Record, error) {
	getData, err := zonemap.EncodeGet(node)
	if err != nil {
		return zonemap.Record{}, err
	}
	ret, err := r.client.Read(r.runCtx, r.deployment.Registry, getData)
	if err != nil {
		return zonemap.Record{}, err
	}
	return zonemap.DecodeGetResult(ret)
}

// asyncSend signs and broadcasts a call, then follows it to inclusion. The
// tx hash lands on the session as soon as it is known, so a restart can pick
// up the wait.
func (r *Registrar) asyncSend(to common.Address, data []byte, confirmType fsm.EventType) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		tx, err := r.client.SendCall(r.runCtx, to, nil, data)
		if err != nil {
			r.produce(r.newEvent(eFail, err), 0)
			return
		}
		r.recordTxHash(confirmType, tx.Hash())
		receipt, err := r.client.WaitMined(r.runCtx, tx)
		if err != nil {
			r.produce(r.newEvent(eFail, err), 0)
			return
		}
		r.produce(r.newEvent(confirmType, receipt), 0)
	}()
}

// asyncWaitTx follows an already-broadcast transaction to inclusion
func (r *Registrar) asyncWaitTx(txHash common.Hash, confirmType fsm.EventType) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		receipt, err := r.client.WaitReceipt(r.runCtx, txHash)
		if err != nil {
			r.produce(r.newEvent(eFail, err), 0)
			return
		}
		if receipt.Status == types.ReceiptStatusFailed {
			r.produce(r.newEvent(eFail, errors.Wrapf(chain.ErrExecutionFailed, "transaction %s", txHash.Hex())), 0)
			return
		}
		r.produce(r.newEvent(confirmType, receipt), 0)
	}()
}

func (r *Registrar) recordTxHash(confirmType fsm.EventType, txHash common.Hash) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.session == nil {
		return
	}
	switch confirmType {
	case eCommitConfirmed:
		r.session.CommitTxHash = txHash
	case eMintConfirmed:
		r.session.MintTxHash = txHash
	}
	r.saveSessionLocked()
}

func (r *Registrar) failSession(cause error) {
	r.mutex.Lock()
	if r.session != nil {
		r.session.Cause = cause.Error()
		r.session.setState(StateFailed)
		r.saveSessionLocked()
	}
	r.mutex.Unlock()
	result := "failed"
	if errors.Cause(cause) == wallet.ErrSigningRejected {
		result = "rejected"
	}
	_registrarMtc.WithLabelValues(result).Inc()
	if revert, ok := chain.RevertFromError(cause); ok {
		log.L().Warn("Registration reverted on chain.",
			zap.String("reason", revert.Reason()))
		return
	}
	log.L().Warn("Registration failed.", zap.Error(cause))
}

// saveSessionLocked persists the session, the caller holds the mutex.
// Persistence is best effort, a write failure costs resumability, not the
// flow.
func (r *Registrar) saveSessionLocked() {
	if r.session == nil {
		return
	}
	r.session.UpdatedAt = r.clock.Now()
	if err := r.store.Save(r.session); err != nil {
		log.L().Error("Failed to persist the session.",
			zap.String("name", r.session.Name),
			zap.Error(err))
	}
}
