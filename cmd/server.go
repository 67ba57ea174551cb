package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/travisw1990/spiffo-pz-bot/internal/serverconf"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Inspect and edit the server's configuration files",
}

var serverInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show headline server facts from the INI file",
	Args:  cobra.NoArgs,
	RunE:  runServerInfo,
}

var serverConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Read or change INI settings",
}

var serverConfigGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServerConfigGet,
}

var serverConfigSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runServerConfigSet,
}

var serverModsCmd = &cobra.Command{
	Use:   "mods",
	Short: "Manage the mod and workshop lists",
}

var serverModsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured mods and workshop items",
	Args:  cobra.NoArgs,
	RunE:  runServerModsList,
}

var serverModsAddCmd = &cobra.Command{
	Use:   "add <workshop-id> [mod-id]",
	Short: "Add a workshop mod",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runServerModsAdd,
}

var serverModsRemoveCmd = &cobra.Command{
	Use:   "remove <identifier>",
	Short: "Remove a mod by workshop ID or mod ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runServerModsRemove,
}

var serverSandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Read or change sandbox variables",
}

var serverSandboxGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one sandbox setting, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServerSandboxGet,
}

var serverSandboxSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a sandbox setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runServerSandboxSet,
}

var serverStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the server looks alive",
	Args:  cobra.NoArgs,
	RunE:  runServerStatus,
}

var serverBackupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List backup archives",
	Args:  cobra.NoArgs,
	RunE:  runServerBackups,
}

func init() {
	serverConfigCmd.AddCommand(serverConfigGetCmd)
	serverConfigCmd.AddCommand(serverConfigSetCmd)
	serverModsCmd.AddCommand(serverModsListCmd)
	serverModsCmd.AddCommand(serverModsAddCmd)
	serverModsCmd.AddCommand(serverModsRemoveCmd)
	serverSandboxCmd.AddCommand(serverSandboxGetCmd)
	serverSandboxCmd.AddCommand(serverSandboxSetCmd)

	serverCmd.AddCommand(serverInfoCmd)
	serverCmd.AddCommand(serverConfigCmd)
	serverCmd.AddCommand(serverModsCmd)
	serverCmd.AddCommand(serverSandboxCmd)
	serverCmd.AddCommand(serverStatusCmd)
	serverCmd.AddCommand(serverBackupsCmd)
}

func loadServerConfig() (*serverconf.Config, error) {
	if err := requireServerDir(); err != nil {
		return nil, err
	}
	return serverconf.LoadConfig(cfg.ServerINIPath())
}

func runServerInfo(cmd *cobra.Command, args []string) error {
	conf, err := loadServerConfig()
	if err != nil {
		return err
	}
	for _, e := range conf.Info() {
		fmt.Fprintf(os.Stdout, "%-20s %s\n", e.Key+":", e.Value)
	}
	return nil
}

func runServerConfigGet(cmd *cobra.Command, args []string) error {
	conf, err := loadServerConfig()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		for _, e := range conf.Entries() {
			fmt.Fprintf(os.Stdout, "%s=%s\n", e.Key, e.Value)
		}
		return nil
	}
	value, ok := conf.Get(args[0])
	if !ok {
		return fmt.Errorf("setting %q not found in %s", args[0], cfg.ServerINIPath())
	}
	fmt.Fprintln(os.Stdout, value)
	return nil
}

func runServerConfigSet(cmd *cobra.Command, args []string) error {
	conf, err := loadServerConfig()
	if err != nil {
		return err
	}
	if err := conf.Set(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Updated %s=%s. Server restart required.\n", args[0], args[1])
	return nil
}

func runServerModsList(cmd *cobra.Command, args []string) error {
	conf, err := loadServerConfig()
	if err != nil {
		return err
	}
	mods := conf.Mods()
	workshop := conf.WorkshopItems()
	if len(mods) == 0 && len(workshop) == 0 {
		fmt.Fprintln(os.Stdout, "No mods configured.")
		return nil
	}
	if len(mods) > 0 {
		fmt.Fprintln(os.Stdout, "Mods:")
		for _, m := range mods {
			fmt.Fprintf(os.Stdout, "  %s\n", m)
		}
	}
	if len(workshop) > 0 {
		fmt.Fprintln(os.Stdout, "Workshop items:")
		for _, w := range workshop {
			fmt.Fprintf(os.Stdout, "  %s\n", w)
		}
	}
	return nil
}

func runServerModsAdd(cmd *cobra.Command, args []string) error {
	conf, err := loadServerConfig()
	if err != nil {
		return err
	}
	modID := ""
	if len(args) == 2 {
		modID = args[1]
	}
	if err := conf.AddMod(args[0], modID); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Added workshop ID %s. Server restart required for the mod to download.\n", args[0])
	return nil
}

func runServerModsRemove(cmd *cobra.Command, args []string) error {
	conf, err := loadServerConfig()
	if err != nil {
		return err
	}
	if err := conf.RemoveMod(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Removed mod %q. Server restart required.\n", args[0])
	return nil
}

func loadSandbox() (*serverconf.Sandbox, error) {
	if err := requireServerDir(); err != nil {
		return nil, err
	}
	return serverconf.LoadSandbox(cfg.SandboxPath())
}

func runServerSandboxGet(cmd *cobra.Command, args []string) error {
	sb, err := loadSandbox()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		for _, e := range sb.Entries() {
			fmt.Fprintf(os.Stdout, "%s = %s\n", e.Key, e.Value)
		}
		return nil
	}
	value, ok := sb.Get(args[0])
	if !ok {
		return fmt.Errorf("sandbox setting %q not found in %s", args[0], cfg.SandboxPath())
	}
	fmt.Fprintln(os.Stdout, value)
	return nil
}

func runServerSandboxSet(cmd *cobra.Command, args []string) error {
	sb, err := loadSandbox()
	if err != nil {
		return err
	}
	if err := sb.Set(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Updated %s to %s. Server restart required.\n", args[0], args[1])
	return nil
}

func runServerStatus(cmd *cobra.Command, args []string) error {
	if err := requireServerDir(); err != nil {
		return err
	}
	online, msg, err := logSource().ServerOnline(time.Now())
	if err != nil {
		return err
	}
	if online {
		fmt.Fprintf(os.Stdout, "ONLINE: %s\n", msg)
	} else {
		fmt.Fprintf(os.Stdout, "OFFLINE: %s\n", msg)
	}
	return nil
}

func runServerBackups(cmd *cobra.Command, args []string) error {
	if err := requireServerDir(); err != nil {
		return err
	}
	backups, err := logSource().ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Fprintln(os.Stdout, "No backups found.")
		return nil
	}
	for _, b := range backups {
		fmt.Fprintln(os.Stdout, b)
	}
	return nil
}
