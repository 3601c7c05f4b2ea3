package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobradar/internal/ats"
	"github.com/jonathan/jobradar/internal/db"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Manage the company registry",
}

var companiesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a company in the registry",
	RunE:  runCompaniesAdd,
}

var companiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active companies",
	RunE:  runCompaniesList,
}

var (
	companyATS    string
	companySlug   string
	companyName   string
	companyActive bool
)

func init() {
	companiesAddCmd.Flags().StringVar(&companyATS, "ats", "", "Platform (greenhouse, lever, ashby, smartrecruiters)")
	companiesAddCmd.Flags().StringVar(&companySlug, "slug", "", "Company slug on the platform's board URL")
	companiesAddCmd.Flags().StringVar(&companyName, "name", "", "Display name (defaults to the slug)")
	companiesAddCmd.Flags().BoolVar(&companyActive, "active", true, "Whether the dispatcher should fetch this company")
	_ = companiesAddCmd.MarkFlagRequired("ats")
	_ = companiesAddCmd.MarkFlagRequired("slug")

	companiesCmd.AddCommand(companiesAddCmd)
	companiesCmd.AddCommand(companiesListCmd)
	rootCmd.AddCommand(companiesCmd)
}

func runCompaniesAdd(cmd *cobra.Command, _ []string) error {
	platform, err := ats.ParsePlatform(companyATS)
	if err != nil {
		return err
	}
	name := companyName
	if name == "" {
		name = companySlug
	}

	ctx := context.Background()
	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	c := db.Company{ATS: string(platform), Slug: companySlug, DisplayName: name, Active: companyActive}
	if err := d.db.UpsertCompany(ctx, c); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s/%s\n", c.ATS, c.Slug)
	return nil
}

func runCompaniesList(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	companies, err := d.db.ListActiveCompanies(ctx)
	if err != nil {
		return err
	}
	for _, c := range companies {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", c.ATS, c.Slug, c.DisplayName)
	}
	return nil
}
