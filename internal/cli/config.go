package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/mixtape/internal/config"
	mixerrors "github.com/tessro/mixtape/internal/errors"
	"github.com/tessro/mixtape/internal/wizard"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing mixtape configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, after defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a new configuration file. In a terminal you are asked for the
catalog location and your profile; otherwise defaults are written.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Keys are written as section.field, for example:
  catalog.url          Base URL of the mix API
  catalog.user         Profile shown by 'mixtape profile'
  player.shuffle       Start with shuffle on (true/false)
  player.seek_step     Seconds skipped by the seek keys
  media.notify         Desktop notification on track change
  tui.theme            auto, dark or light

Examples:
  mixtape config set catalog.user nadia
  mixtape config set player.seek_step 30`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return PrintJSON(cmd.OutOrStdout(), cfg)
	}

	encoder := toml.NewEncoder(cmd.OutOrStdout())
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	_, err := os.Stat(path)
	exists := err == nil

	if JSONOutput() {
		return PrintJSON(cmd.OutOrStdout(), map[string]interface{}{
			"path":   path,
			"exists": exists,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	if !exists && Verbose() {
		fmt.Fprintln(cmd.ErrOrStderr(), "(does not exist yet)")
	}
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return mixerrors.WithSuggestion(
			fmt.Errorf("%w: %s", mixerrors.ErrConfigNotFound, configPath),
			"Run 'mixtape config init' first")
	}

	editor := findEditor()
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func findEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if e := os.Getenv(env); e != "" {
			return e
		}
	}
	for _, e := range []string{"nano", "vim", "vi", "notepad"} {
		if _, err := exec.LookPath(e); err == nil {
			return e
		}
	}
	return ""
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	interactive := wizard.NewInteractive()
	interactive.SetEnabled(!JSONOutput())

	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := interactive.Confirm(fmt.Sprintf("Replace %s?", configPath), false)
		if err != nil {
			return err
		}
		if !overwrite {
			return mixerrors.WithSuggestion(
				fmt.Errorf("config file already exists at %s", configPath),
				"Use 'mixtape config edit' or 'mixtape config set' to change it")
		}
	}

	newCfg := config.Default()
	if interactive.CanInteract() {
		if err := initForm(newCfg).Run(); err != nil {
			if err == huh.ErrUserAborted {
				return wizard.ErrCancelled
			}
			return err
		}
		if newCfg.Catalog.Driver == "mysql" {
			newCfg.Catalog.DSN, newCfg.Catalog.URL = newCfg.Catalog.URL, ""
		}
		if err := newCfg.Validate(); err != nil {
			return fmt.Errorf("%w: %w", mixerrors.ErrInvalidConfig, err)
		}
	}

	if err := config.Write(configPath, newCfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if JSONOutput() {
		return PrintJSON(cmd.OutOrStdout(), map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", configPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
	fmt.Fprintln(cmd.OutOrStdout(), "  1. Run 'mixtape feed' to check the catalog connection")
	fmt.Fprintln(cmd.OutOrStdout(), "  2. Run 'mixtape ui' to start listening")
	return nil
}

func initForm(c *config.Config) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Catalog").
				Options(
					huh.NewOption("REST API", "rest"),
					huh.NewOption("MySQL database", "mysql"),
				).
				Value(&c.Catalog.Driver),
			huh.NewInput().
				Title("Catalog URL or DSN").
				Description("API base URL for rest, data source name for mysql").
				Value(&c.Catalog.URL),
			huh.NewInput().
				Title("Your profile").
				Description("Optional. Used by 'mixtape profile' and the Profile view").
				Value(&c.Catalog.User),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Start with shuffle on?").
				Value(&c.Player.Shuffle),
			huh.NewConfirm().
				Title("Show a desktop notification on each new mix?").
				Value(&c.Media.Notify),
		),
	).WithShowHelp(true)
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := config.FindConfigFile(); p != "" {
		return p
	}
	return config.DefaultPath()
}

// intKeys and boolKeys name the fields that are not strings.
var (
	intKeys = map[string]bool{
		"catalog.timeout":        true,
		"cache.db":               true,
		"cache.ttl":              true,
		"storage.presign_expiry": true,
		"player.seek_step":       true,
		"player.tick_interval":   true,
		"player.waveform_bars":   true,
		"player.feed_limit":      true,
		"tui.refresh_interval":   true,
		"log.max_size":           true,
		"log.max_backups":        true,
		"log.max_age":            true,
	}
	boolKeys = map[string]bool{
		"storage.use_ssl": true,
		"player.shuffle":  true,
		"media.enabled":   true,
		"media.notify":    true,
	}
)

// parseValue converts a command line value to the type the key expects.
func parseValue(key, value string) (interface{}, error) {
	switch {
	case intKeys[key]:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("value must be an integer for %s", key)
		}
		return n, nil
	case boolKeys[key]:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("value must be true or false for %s", key)
		}
		return b, nil
	default:
		return value, nil
	}
}

// setValue writes value under section.field in raw and checks that the
// changed section still decodes and validates. Other sections may be
// incomplete; a fresh file has no catalog url yet.
func setValue(raw map[string]interface{}, key, value string) error {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return fmt.Errorf("invalid key format. Use 'section.field' (e.g., catalog.user)")
	}
	section, field := parts[0], parts[1]

	typed, err := parseValue(key, value)
	if err != nil {
		return err
	}

	sectionMap, ok := raw[section].(map[string]interface{})
	if !ok {
		sectionMap = make(map[string]interface{})
		raw[section] = sectionMap
	}
	sectionMap[field] = typed

	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return err
	}
	check := config.Default()
	md, err := toml.Decode(buf.String(), check)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %s", undecoded[0])
	}
	check.ApplyDefaults()
	if section == "catalog" && (field == "user" || field == "api_key") {
		return nil
	}
	return validateSection(check, section)
}

func validateSection(c *config.Config, section string) error {
	var err error
	switch section {
	case "catalog":
		err = c.Catalog.Validate()
	case "cache":
		err = c.Cache.Validate()
	case "storage":
		err = c.Storage.Validate()
	case "player":
		err = c.Player.Validate()
	case "tui":
		err = c.TUI.Validate()
	case "log":
		err = c.Log.Validate()
	case "media":
	default:
		return fmt.Errorf("unknown section %s", section)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", mixerrors.ErrInvalidConfig, section, err)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	configPath := getConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return mixerrors.WithSuggestion(
			fmt.Errorf("%w: %s", mixerrors.ErrConfigNotFound, configPath),
			"Run 'mixtape config init' first")
	}

	raw := map[string]interface{}{}
	if _, err := toml.DecodeFile(configPath, &raw); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := setValue(raw, key, value); err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(raw); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if JSONOutput() {
		return PrintJSON(cmd.OutOrStdout(), map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}
