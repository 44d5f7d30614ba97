// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package register drives a full name registration from the command line:
// commit, maturity countdown, mint, prediction check. The flow itself runs
// in the registrar FSM, this package only renders its progress.
package register

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/facebookgo/clock"
	fsm "github.com/iotexproject/go-fsm"
	"github.com/rodaine/table"
	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"

	"github.com/zonemapproject/zonemap-core/chain"
	coreconfig "github.com/zonemapproject/zonemap-core/config"
	"github.com/zonemapproject/zonemap-core/db"
	"github.com/zonemapproject/zonemap-core/pkg/log"
	"github.com/zonemapproject/zonemap-core/pkg/tracer"
	"github.com/zonemapproject/zonemap-core/registrar"
	"github.com/zonemapproject/zonemap-core/tba"
	"github.com/zonemapproject/zonemap-core/zmctl/cmd/account"
	"github.com/zonemapproject/zonemap-core/zmctl/config"
	"github.com/zonemapproject/zonemap-core/zmctl/output"
	"github.com/zonemapproject/zonemap-core/zmctl/util"
	"github.com/zonemapproject/zonemap-core/zonemap"
	"github.com/zonemapproject/zonemap-core/zns"
)

// Multi-language support
var (
	_registerCmdShorts = map[config.Language]string{
		config.English: "Register a name through commit and reveal",
		config.Chinese: "通过提交和揭示注册名称",
	}
	_registerCmdUses = map[config.Language]string{
		config.English: "register NAME",
		config.Chinese: "register 名称",
	}
)

// Flags
var (
	_netKey         string
	_direct         bool
	_ip             string
	_wsPort         uint16
	_tcpPort        uint16
	_routers        []string
	_implementation string
	_dryRun         bool
)

const _statePollInterval = 250 * time.Millisecond

// RegisterCmd represents the register command
var RegisterCmd = &cobra.Command{
	Use:   config.TranslateInLang(_registerCmdUses, config.UILanguage),
	Short: config.TranslateInLang(_registerCmdShorts, config.UILanguage),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := register(args[0])
		return output.PrintError(err)
	},
}

func init() {
	RegisterCmd.AddCommand(_registerSubCmd)
	for _, cmd := range []*cobra.Command{RegisterCmd, _registerSubCmd} {
		cmd.Flags().StringVar(&_netKey, "net-key", "",
			"32-byte hex networking public key of the node the entry will run")
		cmd.Flags().BoolVar(&_direct, "direct", false,
			"publish a direct entry reachable at --ip and --ws-port")
		cmd.Flags().StringVar(&_ip, "ip", "", "public IPv4 address of a direct entry")
		cmd.Flags().Uint16Var(&_wsPort, "ws-port", 0, "websocket port of a direct entry")
		cmd.Flags().Uint16Var(&_tcpPort, "tcp-port", 0, "tcp port of a direct entry")
		cmd.Flags().StringSliceVar(&_routers, "router", nil,
			"router name of an indirect entry, repeatable")
		cmd.Flags().StringVar(&_implementation, "implementation", "",
			"override the entry implementation contract")
		cmd.Flags().BoolVar(&_dryRun, "dry-run", false,
			"print the registration plan without sending anything")
	}
}

func register(arg string) error {
	req, err := buildRequest(arg)
	if err != nil {
		return err
	}
	cfg, err := util.CoreConfig()
	if err != nil {
		return err
	}

	output.PrintQuery("Enter wallet password\n")
	password, err := util.ReadSecretFromStdin()
	if err != nil {
		return output.NewError(output.InputError, "failed to get password", err)
	}
	signer, err := account.Signer(password)
	if err != nil {
		return err
	}

	if _dryRun {
		return printPlan(cfg, req, signer.Address(), false)
	}

	ctx := context.Background()
	client, err := chain.Dial(ctx, cfg.Chain, signer)
	if err != nil {
		return output.NewError(output.NetworkError, "failed to connect to endpoint", err)
	}
	r, stop, err := startRegistrar(ctx, cfg, client)
	if err != nil {
		return err
	}
	defer stop()

	// a flow interrupted by a previous run resumes inside Start
	if session := r.Session(); session != nil && !session.Terminal() {
		if session.Name != req.Name {
			return output.NewError(output.ChainError, fmt.Sprintf(
				"registration of %s is still in flight, run 'zmctl register %s' to finish it first",
				session.Name, session.Name), nil)
		}
		fmt.Printf("Resuming interrupted registration of %s from %s\n", session.Name, session.State)
		return watch(r, cfg.Registrar.MaturityBuffer)
	}

	session, err := r.Submit(req)
	if err != nil {
		return output.NewError(output.ChainError, "failed to submit the registration", err)
	}
	fmt.Printf("Registering %s, commitment %s\n", session.Name, session.Commitment.Hex())
	return watch(r, cfg.Registrar.MaturityBuffer)
}

// buildRequest renders the flags into a submit request
func buildRequest(arg string) (*registrar.SubmitRequest, error) {
	networking, err := networkingFromFlags()
	if err != nil {
		return nil, err
	}
	req := &registrar.SubmitRequest{
		Name:       arg,
		Networking: networking,
	}
	if _implementation != "" {
		if !common.IsHexAddress(_implementation) {
			return nil, output.NewError(output.AddressError,
				fmt.Sprintf("invalid implementation address %s", _implementation), nil)
		}
		req.Implementation = common.HexToAddress(_implementation)
	}
	return req, nil
}

func networkingFromFlags() (zonemap.NetworkingConfig, error) {
	if _netKey == "" {
		return zonemap.NetworkingConfig{}, output.NewError(output.FlagError,
			"--net-key is required, your node prints it on first start", nil)
	}
	key, err := hexutil.Decode(addHexPrefix(_netKey))
	if err != nil {
		return zonemap.NetworkingConfig{}, output.NewError(output.FlagError,
			"invalid --net-key, expect 32 bytes of hex", err)
	}
	networking := zonemap.NetworkingConfig{
		Direct:  _direct,
		NetKey:  key,
		Routers: _routers,
	}
	if _direct {
		networking.IP = net.ParseIP(_ip)
		networking.WSPort = _wsPort
		networking.TCPPort = _tcpPort
	}
	if err := networking.Validate(); err != nil {
		return zonemap.NetworkingConfig{}, output.NewError(output.ValidationError,
			"invalid networking flags", err)
	}
	return networking, nil
}

// printPlan shows what a registration would do without sending anything
func printPlan(cfg coreconfig.Config, req *registrar.SubmitRequest, claimant common.Address, direct bool) error {
	name, err := zns.Normalize(req.Name)
	if err != nil {
		return output.NewError(output.ValidationError, "invalid name", err)
	}
	node, err := zns.Namehash(name)
	if err != nil {
		return output.NewError(output.ValidationError, "invalid name", err)
	}
	deployment, err := cfg.Deployment.Addresses()
	if err != nil {
		return err
	}
	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return output.NewError(output.ValidationError, fmt.Sprintf("name %s has no zone", name), nil)
	}
	implementation := req.Implementation
	if implementation == (common.Address{}) {
		implementation = deployment.Implementation
	}
	p := tba.NewPredictor(deployment.Registry, deployment.AccountRegistry, cfg.Chain.ChainID)

	tb := table.New("FIELD", "VALUE")
	tb.AddRow("name", name)
	tb.AddRow("label", labels[0])
	tb.AddRow("node", hexutil.Encode(node[:]))
	tb.AddRow("claimant", claimant.Hex())
	if direct {
		tb.AddRow("parent", strings.SplitN(name, ".", 2)[1])
	} else {
		commitment := zonemap.Commitment(labels[0], claimant)
		tb.AddRow("commitment", hexutil.Encode(commitment[:]))
	}
	tb.AddRow("implementation", implementation.Hex())
	tb.AddRow("proxy", p.ProxyAddress(node).Hex())
	tb.AddRow("account", p.AccountAddress(node).Hex())
	if !direct {
		tb.AddRow("maturity wait", cfg.Registrar.MaturityBuffer.String())
	}
	tb.Print()
	return nil
}

// startRegistrar brings up the flow's runtime: loggers and tracing from the
// core config, the session store next to the wallet, and the FSM with any
// interrupted flow resumed
func startRegistrar(ctx context.Context, cfg coreconfig.Config, client registrar.ChainClient) (*registrar.Registrar, func(), error) {
	if err := log.InitLoggers(cfg.Log, cfg.SubLogs); err != nil {
		return nil, nil, output.NewError(output.ConfigError, "failed to init loggers", err)
	}
	tp, err := tracer.NewProvider(
		tracer.WithServiceName(cfg.Tracer.ServiceName),
		tracer.WithEndpoint(cfg.Tracer.EndPoint),
		tracer.WithInstanceID(cfg.Tracer.InstanceID),
		tracer.WithSamplingRatio(cfg.Tracer.SamplingRatio),
	)
	if err != nil {
		return nil, nil, output.NewError(output.ConfigError, "failed to init tracer", err)
	}
	deployment, err := cfg.Deployment.Addresses()
	if err != nil {
		return nil, nil, err
	}
	dbCfg := cfg.DB
	if dbCfg.DbPath == "" {
		dbCfg.DbPath = config.ReadConfig.Wallet + "/sessions.db"
	}
	r, err := registrar.NewRegistrar(cfg.Registrar, deployment, client, db.NewBoltDB(dbCfg), clock.New())
	if err != nil {
		return nil, nil, output.NewError(output.InstantiationError, "failed to create the registrar", err)
	}
	if err := r.Start(ctx); err != nil {
		return nil, nil, output.NewError(output.RuntimeError, "failed to start the registrar", err)
	}
	stop := func() {
		if err := r.Stop(context.Background()); err != nil {
			fmt.Println(output.NewError(output.RuntimeError, "failed to stop the registrar", err).Error())
		}
		if tp != nil {
			if err := tp.Shutdown(context.Background()); err != nil {
				fmt.Println(output.NewError(output.RuntimeError, "failed to shut down tracing", err).Error())
			}
		}
	}
	return r, stop, nil
}

// watch follows the FSM until it reaches a terminal state, drawing a
// countdown bar through the maturity wait
func watch(r *registrar.Registrar, maturity time.Duration) error {
	last := r.CurrentState()
	for {
		state := r.CurrentState()
		if state != last {
			announce(r, state)
			last = state
		}
		switch state {
		case registrar.StateAwaitingMaturity:
			countdown(r, maturity)
			last = r.CurrentState()
			announce(r, last)
		case registrar.StateDone:
			return printOutcome(r.Session())
		case registrar.StateFailed:
			session := r.Session()
			cause := "registration failed"
			if session != nil && session.Cause != "" {
				cause = session.Cause
			}
			return output.NewError(output.ChainError, cause, nil)
		}
		time.Sleep(_statePollInterval)
	}
}

func announce(r *registrar.Registrar, state fsm.State) {
	switch state {
	case registrar.StateCommitting:
		fmt.Println("Committing...")
	case registrar.StateMinting:
		if session := r.Session(); session != nil && session.MintTxHash != (common.Hash{}) {
			fmt.Printf("Minting, tx %s\n", session.MintTxHash.Hex())
			return
		}
		fmt.Println("Minting...")
	}
}

// countdown draws one tick per second while the commitment matures
func countdown(r *registrar.Registrar, maturity time.Duration) {
	seconds := int(maturity / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	fmt.Println("Commit confirmed, waiting for maturity")
	bar := progressbar.New(seconds)
	for i := 0; i < seconds; i++ {
		if r.CurrentState() != registrar.StateAwaitingMaturity {
			break
		}
		time.Sleep(time.Second)
		bar.Add(1)
	}
	// the FSM fires the mint on its own timer, the bar only keeps the user
	// company
	for r.CurrentState() == registrar.StateAwaitingMaturity {
		time.Sleep(_statePollInterval)
	}
	fmt.Println()
}

func printOutcome(session *registrar.RegistrationSession) error {
	if session == nil {
		return output.NewError(output.RuntimeError, "registration finished without a session", nil)
	}
	tb := table.New("FIELD", "VALUE")
	tb.AddRow("name", session.Name)
	tb.AddRow("node", session.Node.Hex())
	tb.AddRow("owner", session.Claimant.Hex())
	tb.AddRow("account", session.PredictedTBA.Hex())
	if session.CommitTxHash != (common.Hash{}) {
		tb.AddRow("commit tx", session.CommitTxHash.Hex())
	}
	if session.MintTxHash != (common.Hash{}) {
		tb.AddRow("mint tx", session.MintTxHash.Hex())
	}
	tb.Print()
	output.PrintResult(fmt.Sprintf("%s is registered.", session.Name))
	return nil
}

func addHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s
	}
	return "0x" + s
}
