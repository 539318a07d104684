package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/cobra"

	"ats-workers/pkg/registry"
)

var registryPath string

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect and maintain the activity registry",
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the registry for missing fields, duplicates and broken schemas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if err := reg.Validate(); err != nil {
			return fmt.Errorf("registry validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
		return nil
	},
}

var (
	addActivity registry.Activity
	updateID    string
	updateField string
	updateValue string
)

var registryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an activity with empty schemas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if errors.Is(err, fs.ErrNotExist) {
			reg, err = &registry.ActivityRegistry{Version: "1.0.0"}, nil
		}
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}

		activity := addActivity
		activity.InputSchema = map[string]interface{}{}
		activity.OutputSchema = map[string]interface{}{}
		activity.ErrorCodes = []string{}
		activity.Workflows = []string{}
		activity.Tags = []string{}
		if err := reg.Add(activity, time.Now().UTC()); err != nil {
			return err
		}
		if err := registry.Save(reg, registryPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", activity.ID)
		return nil
	},
}

var registryUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Set one field of an existing activity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if err := reg.Update(updateID, updateField, updateValue, time.Now().UTC()); err != nil {
			return err
		}
		if err := registry.Save(reg, registryPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", updateID, updateField, updateValue)
		return nil
	},
}

func init() {
	registryCmd.PersistentFlags().StringVar(&registryPath, "path", "configs/activity-registry.json", "path to registry file")

	f := registryAddCmd.Flags()
	f.StringVar(&addActivity.ID, "id", "", "activity ID (e.g. ats.resume.parse)")
	f.StringVar(&addActivity.DisplayName, "display-name", "", "display name")
	f.StringVar(&addActivity.Description, "description", "", "description")
	f.StringVar(&addActivity.Category, "category", "", "category (e.g. ats)")
	f.StringVar(&addActivity.TaskType, "task-type", "", "Camunda task type")
	f.StringVar(&addActivity.Version, "version", "1.0.0", "version")
	f.StringVar(&addActivity.ImplementationStatus, "status", registry.StatusPlanned, "planned, in-progress, completed or verified")
	f.StringVar(&addActivity.Timeout, "timeout", "10s", "job timeout")
	for _, name := range []string{"id", "display-name", "description", "category", "task-type"} {
		_ = registryAddCmd.MarkFlagRequired(name)
	}

	u := registryUpdateCmd.Flags()
	u.StringVar(&updateID, "id", "", "activity ID to update")
	u.StringVar(&updateField, "field", "", "field to update (status, version, timeout, retries, ...)")
	u.StringVar(&updateValue, "value", "", "new value")
	for _, name := range []string{"id", "field", "value"} {
		_ = registryUpdateCmd.MarkFlagRequired(name)
	}

	registryCmd.AddCommand(registryValidateCmd, registryAddCmd, registryUpdateCmd)
	rootCmd.AddCommand(registryCmd)
}
