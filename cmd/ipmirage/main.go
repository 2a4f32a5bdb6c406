// IPMIrage - BMC Static IP Provisioning Tool
//
// Assigns a static IP address to a baseboard management controller over
// IPMI. The BMC's new address is usually outside the host's current
// subnet, so the tool adds a temporary address on a local interface for
// the duration of the run and removes it afterward — including on
// failure, so the host's networking always ends in its original state.
//
//	ipmirage [flags] CURRENT_IP NEW_IP NETMASK GATEWAY
//
// Credentials come from $IPMI_USERNAME/$IPMI_PASSWORD, the config file,
// or the defaults ADMIN/admin; --ask-pass prompts interactively.
//
// Examples:
//
//	ipmirage 192.0.2.10 10.0.0.50 255.255.255.0 10.0.0.1
//	ipmirage -i eno1 --timeout 10s 192.0.2.10 10.0.0.50 255.255.255.0 10.0.0.1
//	ipmirage --verify --strict-reset 192.0.2.10 10.0.0.50 255.255.255.0 10.0.0.1
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Projekt-ERROR/IPMIrage/pkg/util"
	"github.com/Projekt-ERROR/IPMIrage/pkg/version"
)

var (
	// Option flags; zero values mean "use the config file default".
	cfgPath     string
	ifaceName   string
	username    string
	askPass     bool
	cmdTimeout  time.Duration
	settleDelay time.Duration
	strictReset bool
	verify      bool
	verbose     bool
	showVersion bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "ipmirage [flags] CURRENT_IP NEW_IP NETMASK GATEWAY",
	Short:             "Assign a static IP address to a BMC over IPMI",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `IPMIrage reconfigures a BMC from its current (typically DHCP-assigned)
address to a static one. It bridges the host across the address change
with a temporary local address and rolls that back on any failure.

Arguments:
  CURRENT_IP   address the BMC answers at now
  NEW_IP       static address to assign
  NETMASK      dotted-quad netmask (e.g. 255.255.255.0)
  GATEWAY      default gateway for the BMC's new subnet`,
	Args: func(cmd *cobra.Command, args []string) error {
		if showVersion && len(args) == 0 {
			return nil
		}
		if len(args) != 4 {
			_ = cmd.Usage()
			return util.UsageErrorf("expected 4 arguments (CURRENT_IP NEW_IP NETMASK GATEWAY), got %d", len(args))
		}
		return nil
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Quiet by default; run progress goes to stdout, -v opens the debug log.
		if verbose {
			return util.SetLogLevel("debug")
		}
		return util.SetLogLevel("warn")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion && len(args) == 0 {
			fmt.Println("ipmirage " + version.Info())
			return nil
		}
		return runProvision(cmd, args)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&cfgPath, "config", "", "config file (default ~/.ipmirage/config.yaml)")
	flags.StringVarP(&ifaceName, "interface", "i", "", "local interface for the temporary address")
	flags.StringVarP(&username, "username", "u", "", "IPMI username (env IPMI_USERNAME, default ADMIN)")
	flags.BoolVar(&askPass, "ask-pass", false, "prompt for the IPMI password")
	flags.DurationVar(&cmdTimeout, "timeout", 0, "per-command IPMI timeout (default 30s)")
	flags.DurationVar(&settleDelay, "settle", 0, "wait after adding the temporary address (default 10s)")
	flags.BoolVar(&strictReset, "strict-reset", false, "treat BMC reset failure as fatal")
	flags.BoolVar(&verify, "verify", false, "probe the BMC at its new address after reset")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&showVersion, "version", false, "print version and exit")
}
