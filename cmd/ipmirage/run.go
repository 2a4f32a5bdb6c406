package main

import (
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Projekt-ERROR/IPMIrage/pkg/audit"
	"github.com/Projekt-ERROR/IPMIrage/pkg/cli"
	"github.com/Projekt-ERROR/IPMIrage/pkg/config"
	"github.com/Projekt-ERROR/IPMIrage/pkg/ipmi"
	"github.com/Projekt-ERROR/IPMIrage/pkg/netif"
	"github.com/Projekt-ERROR/IPMIrage/pkg/provision"
	"github.com/Projekt-ERROR/IPMIrage/pkg/util"
)

// stepPadWidth aligns the OK/FAILED column in progress output.
const stepPadWidth = 36

func runProvision(cmd *cobra.Command, args []string) error {
	req, err := parseRequest(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.LogFile != "" {
		f, err := util.TeeLogFile(cfg.LogFile)
		if err != nil {
			util.Warnf("could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
		}
	}
	applyFlagOverrides(cmd, cfg)

	creds, err := resolveCredentials(cfg)
	if err != nil {
		return err
	}

	prov := &provision.Provisioner{
		Driver:        ipmi.NewClient(creds, cfg.IPMI.Tool, time.Duration(cfg.IPMI.Timeout)),
		Mutator:       netif.NewMutator(cfg.Network.Interface),
		SettleDelay:   time.Duration(cfg.Provision.SettleDelay),
		StrictReset:   cfg.Provision.StrictReset,
		Verify:        cfg.Provision.Verify,
		VerifyTimeout: time.Duration(cfg.Provision.VerifyTimeout),
		OnStep:        printStep,
	}

	fmt.Printf("Provisioning BMC %s → %s (via %s)\n\n",
		cli.Bold(req.CurrentAddr), cli.Bold(req.NewAddr), cfg.Network.Interface)

	start := time.Now()
	res, runErr := prov.Provision(cmd.Context(), req)

	logAudit(cfg, req, res, runErr, time.Since(start))
	printSummary(res, runErr)
	return runErr
}

// parseRequest validates the four positional addresses up front so
// obvious format problems never reach the BMC.
func parseRequest(args []string) (provision.Request, error) {
	req := provision.Request{
		CurrentAddr: args[0],
		NewAddr:     args[1],
		Netmask:     args[2],
		Gateway:     args[3],
	}

	var v util.ValidationBuilder
	v.Add(util.ValidIPv4(req.CurrentAddr), fmt.Sprintf("invalid current address: %s", req.CurrentAddr))
	v.Add(util.ValidIPv4(req.NewAddr), fmt.Sprintf("invalid new address: %s", req.NewAddr))
	v.Add(util.ValidNetmask(req.Netmask), fmt.Sprintf("invalid netmask: %s", req.Netmask))
	v.Add(util.ValidIPv4(req.Gateway), fmt.Sprintf("invalid gateway: %s", req.Gateway))
	if err := v.Build(); err != nil {
		return provision.Request{}, err
	}
	return req, nil
}

func loadConfig() (*config.Config, error) {
	if cfgPath != "" {
		return config.LoadFrom(cfgPath)
	}
	return config.Load()
}

// applyFlagOverrides lets explicit flags win over the config file.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("interface") {
		cfg.Network.Interface = ifaceName
	}
	if flags.Changed("timeout") {
		cfg.IPMI.Timeout = config.Duration(cmdTimeout)
	}
	if flags.Changed("settle") {
		cfg.Provision.SettleDelay = config.Duration(settleDelay)
	}
	if flags.Changed("strict-reset") {
		cfg.Provision.StrictReset = strictReset
	}
	if flags.Changed("verify") {
		cfg.Provision.Verify = verify
	}
}

func resolveCredentials(cfg *config.Config) (ipmi.Credentials, error) {
	name, pass := cfg.ResolveCredentials()
	if username != "" {
		// An explicit -u beats both the environment and the config file.
		name = username
	}
	if askPass {
		prompted, err := promptPassword()
		if err != nil {
			return ipmi.Credentials{}, err
		}
		pass = prompted
	}
	return ipmi.Credentials{Username: name, Password: pass}, nil
}

func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", util.UsageErrorf("--ask-pass requires an interactive terminal")
	}
	fmt.Fprint(os.Stderr, "IPMI password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}

func printStep(sr provision.StepResult) {
	pad := cli.DotPad(sr.Name, stepPadWidth)
	switch {
	case sr.Err == nil:
		fmt.Printf("  %s %s\n", pad, cli.Green("OK"))
	case sr.Advisory:
		fmt.Printf("  %s %s (%v)\n", pad, cli.Yellow("WARN"), sr.Err)
	case sr.Outcome.TimedOut:
		fmt.Printf("  %s %s\n", pad, cli.Red("TIMEOUT"))
	default:
		fmt.Printf("  %s %s\n", pad, cli.Red("FAILED"))
	}
}

func printSummary(res *provision.Result, runErr error) {
	if res == nil {
		return
	}
	fmt.Println()
	if runErr == nil {
		fmt.Printf("%s in %s\n", cli.Green("Completed"), res.Duration.Round(time.Millisecond))
	} else {
		fmt.Printf("%s: %v\n", cli.Red("Failed"), runErr)
		if res.RolledBack {
			fmt.Println(cli.Dim("Temporary route removed, local networking restored."))
		}
	}
	if res.RollbackErr != nil {
		fmt.Printf("%s: %v\n", cli.Yellow("Cleanup warning"), res.RollbackErr)
	}
}

// logAudit records the run in the JSON-lines audit log when configured.
func logAudit(cfg *config.Config, req provision.Request, res *provision.Result, runErr error, elapsed time.Duration) {
	if cfg.AuditLog == "" || res == nil {
		return
	}
	logger, err := audit.NewFileLogger(cfg.AuditLog)
	if err != nil {
		util.Warnf("could not open audit log %s: %v", cfg.AuditLog, err)
		return
	}
	defer logger.Close()

	ev := audit.NewEvent(currentUser(), req.CurrentAddr, "provision").
		WithNewAddress(req.NewAddr).
		WithDuration(elapsed)
	for _, sr := range res.Steps {
		rec := audit.StepRecord{
			Name:      sr.Name,
			Succeeded: sr.Err == nil,
			TimedOut:  sr.Outcome.TimedOut,
			Advisory:  sr.Advisory,
		}
		if sr.Err != nil {
			rec.Error = sr.Err.Error()
		}
		ev.WithStep(rec)
	}
	if res.RolledBack {
		ev.WithRollback()
	}
	if runErr != nil {
		ev.WithError(runErr)
	} else {
		ev.WithSuccess()
	}
	if err := logger.Log(ev); err != nil {
		util.Warnf("audit log write failed: %v", err)
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}
