package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/paddio-admin/internal/catalog"
	"github.com/mauv0809/paddio-admin/internal/export"
	"github.com/mauv0809/paddio-admin/internal/listing"
	"github.com/mauv0809/paddio-admin/internal/metrics"
	"github.com/mauv0809/paddio-admin/internal/paddio"
	"github.com/mauv0809/paddio-admin/internal/session"
	"github.com/mauv0809/paddio-admin/internal/stats"
	"github.com/spf13/cobra"
)

// listOptions are the flags shared by list, export and browse.
type listOptions struct {
	search  string
	filters map[string]string
	sort    string
	desc    bool
	page    int
	perPage int
}

func (o *listOptions) bind(cmd *cobra.Command, paging bool) {
	cmd.Flags().StringVarP(&o.search, "search", "q", "", "Free-text search")
	cmd.Flags().StringToStringVarP(&o.filters, "filter", "f", nil, "Filter as key=value (repeatable)")
	cmd.Flags().StringVarP(&o.sort, "sort", "s", "", "Sort field")
	cmd.Flags().BoolVar(&o.desc, "desc", false, "Sort descending")
	if paging {
		cmd.Flags().IntVarP(&o.page, "page", "p", 1, "Page number, starting at 1")
		cmd.Flags().IntVar(&o.perPage, "per-page", listing.DefaultPageSize, "Rows per page")
	}
}

var (
	password   string
	listOpts   listOptions
	exportOpts listOptions
	browseOpts listOptions
	format     string
	outDir     string
)

func init() {
	loginCmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	listOpts.bind(listCmd, true)
	exportOpts.bind(exportCmd, false)
	exportCmd.Flags().StringVar(&format, "format", "csv", "Export format: csv or xlsx")
	exportCmd.Flags().StringVarP(&outDir, "dir", "o", ".", "Directory the file is written to")
	browseOpts.bind(browseCmd, false)

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(statsCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in with a super admin account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pass := password
		if pass == "" {
			var err error
			if pass, err = promptPassword(); err != nil {
				return err
			}
		}
		return withApp(func(ctx context.Context, a *app) error {
			token, err := a.api.Login(ctx, args[0], pass)
			if err != nil {
				return err
			}
			client := paddio.NewClient(a.cfg.APIURL, a.cfg.Resources, paddio.NewMemoryCredentials(token.AccessToken))
			user, err := client.Me(ctx)
			if err != nil {
				return err
			}
			if err := a.sessions.Save(ctx, session.CLISessionID, token.AccessToken, user); err != nil {
				return err
			}
			if user.Role != paddio.RoleSuperAdmin {
				return errAccessDenied
			}
			fmt.Println(successStyle.Render("Sesión iniciada como " + user.Name))
			return nil
		})(cmd, args)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: withApp(func(ctx context.Context, a *app) error {
		if err := a.sessions.Clear(ctx, session.CLISessionID); err != nil {
			return err
		}
		fmt.Println("Sesión cerrada")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE: withApp(func(ctx context.Context, a *app) error {
		sess, err := a.sessions.Get(ctx, session.CLISessionID)
		if errors.Is(err, session.ErrNotFound) || (err == nil && !sess.Authenticated()) {
			return errNotLoggedIn
		}
		if err != nil {
			return err
		}
		u := sess.User
		fmt.Printf("%s <%s>\n", u.Name, u.Email)
		fmt.Printf("Rol: %s\n", u.Role)
		if !sess.IsSuperAdmin() {
			fmt.Println(errorStyle.Render("Acceso denegado"))
		}
		return nil
	}),
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List the resources that can be browsed",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(renderResources())
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "Print one page of a resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := resolveResource(args[0])
		if err != nil {
			return err
		}
		q, err := buildQuery(res, listOpts)
		if err != nil {
			return err
		}
		return withApp(func(ctx context.Context, a *app) error {
			if _, err := a.requireSuperAdmin(ctx); err != nil {
				return err
			}
			ds, err := res.Load(ctx, a.api)
			if err != nil {
				return err
			}
			page := ds.Query(q)
			fmt.Println(renderTable(page.Rows))
			fmt.Println(mutedStyle.Render(pageFooter(page)))
			return nil
		})(cmd, args)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <resource>",
	Short: "Write the filtered and sorted records to a CSV or XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := resolveResource(args[0])
		if err != nil {
			return err
		}
		f, err := export.ParseFormat(format)
		if err != nil {
			return err
		}
		q, err := buildQuery(res, exportOpts)
		if err != nil {
			return err
		}
		return withApp(func(ctx context.Context, a *app) error {
			if _, err := a.requireSuperAdmin(ctx); err != nil {
				return err
			}
			ds, err := res.Load(ctx, a.api)
			if err != nil {
				return err
			}
			sink := &export.DirSink{Dir: outDir}
			opts := catalog.ExportOptions(res, a.cfg.Resources[res.Name()], f, time.Now())
			file, err := ds.Export(q, opts, sink)
			if errors.Is(err, export.ErrNothingToExport) {
				fmt.Println("No hay datos para exportar")
				return nil
			}
			if err != nil {
				return err
			}
			entry := metrics.Entry{SessionID: session.CLISessionID, Resource: res.Name(), Format: string(f), Filename: file.Name, Rows: file.Rows}
			if err := a.exports.Record(ctx, entry); err != nil {
				log.Warn("Failed to record export", "error", err)
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("%d registros exportados a %s", file.Rows, sink.Path)))
			return nil
		})(cmd, args)
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse <resource>",
	Short: "Browse a resource interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := resolveResource(args[0])
		if err != nil {
			return err
		}
		q, err := buildQuery(res, browseOpts)
		if err != nil {
			return err
		}
		return withApp(func(ctx context.Context, a *app) error {
			if _, err := a.requireSuperAdmin(ctx); err != nil {
				return err
			}
			return runBrowser(ctx, a, res, q)
		})(cmd, args)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the dashboard figures",
	RunE: withApp(func(ctx context.Context, a *app) error {
		if _, err := a.requireSuperAdmin(ctx); err != nil {
			return err
		}
		data, err := stats.Load(ctx, a.api)
		if err != nil {
			return err
		}
		fmt.Println(renderSummary(stats.Compute(data, time.Now())))
		return nil
	}),
}

// resolveResource looks a resource up by name or alias and suggests close
// names for a typo.
func resolveResource(name string) (catalog.Resource, error) {
	res, err := catalog.Lookup(name)
	if err == nil {
		return res, nil
	}
	if suggestions := catalog.Suggest(name); len(suggestions) > 0 {
		return nil, fmt.Errorf("recurso desconocido %q, ¿quisiste decir %s?", name, strings.Join(suggestions, ", "))
	}
	return nil, fmt.Errorf("recurso desconocido %q, disponibles: %s", name, strings.Join(catalog.Names(), ", "))
}

// buildQuery validates the flags against the resource and turns them into a
// query. Pages are numbered from 1 on the command line.
func buildQuery(res catalog.Resource, o listOptions) (listing.Query, error) {
	values := url.Values{}
	if o.search != "" {
		values.Set("q", o.search)
	}
	keys := res.FilterKeys()
	for key, value := range o.filters {
		if !slices.Contains(keys, key) {
			return listing.Query{}, fmt.Errorf("filtro desconocido %q para %s, disponibles: %s", key, res.Name(), strings.Join(keys, ", "))
		}
		values.Set(key, value)
	}
	if o.sort != "" {
		if !slices.Contains(res.SortFields(), o.sort) {
			return listing.Query{}, fmt.Errorf("campo de orden desconocido %q para %s, disponibles: %s", o.sort, res.Name(), strings.Join(res.SortFields(), ", "))
		}
		values.Set("sort", o.sort)
	}
	if o.desc {
		values.Set("dir", string(listing.Desc))
	}
	if o.perPage != 0 {
		if !slices.Contains(listing.PageSizeOptions, o.perPage) {
			return listing.Query{}, fmt.Errorf("filas por página inválidas %d, opciones: %v", o.perPage, listing.PageSizeOptions)
		}
		values.Set("per_page", strconv.Itoa(o.perPage))
	}
	if o.page > 1 {
		values.Set("page", strconv.Itoa(o.page-1))
	}
	return listing.ParseQuery(values, keys, res.SortFields()), nil
}

func pageFooter(p catalog.Page) string {
	footer := fmt.Sprintf("Página %d de %d · %d registros", p.PageIndex+1, p.TotalPages, p.Total)
	if p.Sort.Field != "" {
		footer += fmt.Sprintf(" · orden: %s %s", p.Sort.Field, p.Sort.Direction)
	}
	return footer
}
