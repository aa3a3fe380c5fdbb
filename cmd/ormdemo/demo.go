package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"simpleorm/internal/errors"
	"simpleorm/internal/model"
	"simpleorm/internal/orm"
)

func newDemoCmd(g *globalFlags) *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a create/list/find/update/delete trace over users and servicos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, logger, cleanup, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := model.Migrate(cmd.Context(), eng); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := userTrace(cmd.Context(), out, logger, keep); err != nil {
				return err
			}
			return serviceTrace(cmd.Context(), out, keep)
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "keep the rows created by the trace")
	return cmd
}

// userTrace walks one user through its whole lifecycle on the default engine
func userTrace(ctx context.Context, out io.Writer, logger *slog.Logger, keep bool) error {
	users := model.Users(nil, logger)

	fmt.Fprintln(out, "== users ==")
	u, err := users.Create(ctx, orm.Fields{
		model.UserName:         "joão orm",
		model.UserEmail:        fmt.Sprintf("joao.orm+%d@example.com", nextSuffix(ctx, users)),
		model.UserPasswordHash: "change-me",
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Fprintf(out, "created id %v: %s\n", u.ID(), u)

	all, err := users.All(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	fmt.Fprintf(out, "%d user(s):\n", len(all))
	for _, x := range all {
		fmt.Fprintf(out, "  %v - %s\n", x.ID(), x)
	}

	found, err := users.FindByPK(ctx, u.ID())
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	fmt.Fprintf(out, "found: %s (password ok: %v)\n", found, found.CheckPassword("change-me"))

	found.Set(model.UserEmail, fmt.Sprintf("novoemail+%v@example.com", found.ID()))
	if mods, ok := found.Modified(); ok {
		fmt.Fprintf(out, "pending changes: %v\n", mods)
	}
	if err := found.Save(ctx); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	fmt.Fprintf(out, "updated e-mail: %s\n", found.Email())

	matches, err := users.FindByField(ctx, model.UserName, "jo%", orm.FetchMany)
	if err != nil {
		return fmt.Errorf("search users: %w", err)
	}
	fmt.Fprintf(out, "%d user(s) with a name starting with jo\n", len(matches))

	opts, err := users.SelectOptions(ctx, "")
	if err != nil {
		return fmt.Errorf("select options: %w", err)
	}
	for _, o := range opts {
		fmt.Fprintf(out, "  option %v => %s\n", o.Value, o.Label)
	}

	if keep {
		return nil
	}

	if err := found.Delete(ctx); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if _, err := users.FindByPK(ctx, u.ID()); errors.IsNotFound(err) {
		fmt.Fprintf(out, "deleted user %v\n", u.ID())
	} else if err != nil {
		return err
	}
	return nil
}

// serviceTrace mirrors userTrace for the servicos table
func serviceTrace(ctx context.Context, out io.Writer, keep bool) error {
	services := model.Services(nil)

	fmt.Fprintln(out, "== servicos ==")
	s, err := services.Create(ctx, orm.Fields{
		model.ServiceName:        "Barba1",
		model.ServiceDescription: "Barbo terapia1",
	})
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	fmt.Fprintf(out, "created id %v: %s\n", s.ID(), s)

	all, err := services.All(ctx)
	if err != nil {
		return fmt.Errorf("list services: %w", err)
	}
	fmt.Fprintf(out, "%d service(s):\n", len(all))
	for _, x := range all {
		fmt.Fprintf(out, "  %v - %s\n", x.ID(), x)
	}

	found, err := services.FindByPK(ctx, s.ID())
	if err != nil {
		return fmt.Errorf("find service: %w", err)
	}
	found.Set(model.ServiceDescription, "Corte e acabamento profissional")
	if err := found.Save(ctx); err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	fmt.Fprintf(out, "updated: %s\n", found)

	n, err := services.Count(ctx, "SELECT COUNT(*) FROM :table")
	if err != nil {
		return fmt.Errorf("count services: %w", err)
	}
	fmt.Fprintf(out, "%d service row(s)\n", n)

	if keep {
		return nil
	}
	if err := found.Delete(ctx); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	fmt.Fprintf(out, "deleted service %v\n", s.ID())
	return nil
}

// nextSuffix keeps demo e-mails unique when --keep left earlier rows behind
func nextSuffix(ctx context.Context, users *orm.Model[*model.User]) int64 {
	n, err := users.Count(ctx, "SELECT COALESCE(MAX(:pk), 0) + 1 FROM :table")
	if err != nil {
		return 1
	}
	return n
}
