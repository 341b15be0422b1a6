package main

import (
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/spf13/cobra"
)

func (a *app) categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage income and expense categories",
		Long:    `List, add, update, reorder, and delete the categories transactions are filed under.`,
	}

	cmd.AddCommand(a.listCategoriesCmd())
	cmd.AddCommand(a.addCategoryCmd())
	cmd.AddCommand(a.updateCategoryCmd())
	cmd.AddCommand(a.deleteCategoryCmd())
	cmd.AddCommand(a.reorderCategoriesCmd())

	return cmd
}

func (a *app) listCategoriesCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			cats := l.Categories.List()
			if status != "" {
				st, err := model.ParseCategoryType(status)
				if err != nil {
					return err
				}
				cats = l.Categories.ByStatus(st)
			}

			if len(cats) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No categories found. Use 'ledger categories add' to create one."))
				return nil
			}
			return cli.WriteCategories(cmd.OutOrStdout(), cats)
		},
	}

	cmd.Flags().StringVar(&status, "type", "", "only show income or expense categories")
	return cmd
}

func (a *app) addCategoryCmd() *cobra.Command {
	var (
		status string
		color  string
		icon   string
		id     string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := model.ParseCategoryType(status)
			if err != nil {
				return err
			}

			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			created, err := l.Categories.Add(cmd.Context(), model.Category{
				ID:     id,
				Name:   args[0],
				Status: st,
				Color:  color,
				Icon:   icon,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created %s category %q (ID: %s)", created.Status, created.Name, created.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "type", "expense", "income or expense")
	cmd.Flags().StringVar(&color, "color", "#95A5A6", "display color")
	cmd.Flags().StringVar(&icon, "icon", "tag", "icon name")
	cmd.Flags().StringVar(&id, "id", "", "explicit id (generated if empty)")
	return cmd
}

func (a *app) updateCategoryCmd() *cobra.Command {
	var (
		name   string
		status string
		color  string
		icon   string
	)

	cmd := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Update a category",
		Long: `Update the name, type, color, or icon of a category.

A category that any transaction still uses cannot be changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("type") && !flags.Changed("color") && !flags.Changed("icon") {
				return common.NewUserError("must specify --name, --type, --color or --icon to update", common.ErrValidation)
			}

			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			current, err := resolveCategory(l, args[0])
			if err != nil {
				return err
			}

			updated := current
			if flags.Changed("name") {
				updated.Name = name
			}
			if flags.Changed("type") {
				if updated.Status, err = model.ParseCategoryType(status); err != nil {
					return err
				}
			}
			if flags.Changed("color") {
				updated.Color = color
			}
			if flags.Changed("icon") {
				updated.Icon = icon
			}

			if err := l.Categories.Update(cmd.Context(), updated); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated category %q", updated.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&status, "type", "", "income or expense")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	cmd.Flags().StringVar(&icon, "icon", "", "icon name")
	return cmd
}

func (a *app) deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete an unused category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			c, err := resolveCategory(l, args[0])
			if err != nil {
				return err
			}
			if err := l.Categories.Delete(cmd.Context(), c.ID); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted category %q", c.Name)))
			return nil
		},
	}
}

func (a *app) reorderCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id|name>...",
		Short: "Set the display order of all categories",
		Long:  `Reorder categories. Every existing category must be listed exactly once.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLedger(l)

			ordered := make([]model.Category, 0, len(args))
			for _, ref := range args {
				c, err := resolveCategory(l, ref)
				if err != nil {
					return err
				}
				ordered = append(ordered, c)
			}

			if err := l.Categories.UpdateOrder(cmd.Context(), ordered); err != nil {
				return err
			}
			return cli.WriteCategories(cmd.OutOrStdout(), l.Categories.List())
		},
	}
}
