// Command admintool is a thin operator CLI over the sportadmin data-access
// SDK: list, inspect, create, patch, and delete reference data from the
// terminal using the same cached read/write paths the admin UI uses.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/matchforge/sportadmin/internal/app/bootstrap"
	"github.com/matchforge/sportadmin/internal/application"
	"github.com/matchforge/sportadmin/internal/domain"
)

const usage = `usage: admintool [-config path] <command> [arguments]

commands:
  login <token>                       store the bearer credential
  logout                              clear the stored credential
  <resource> list [-page N] [-size N] [-search Q] [-ordering F]
  <resource> get <id>
  <resource> create <json>
  <resource> patch <id> <json>
  <resource> delete <id>

resources: countries, leagues, teams, seasons`

func main() {
	// A local .env can override backend location and credentials path.
	_ = godotenv.Load()

	configPath := flag.String("config", "configs/default.yaml", "path to the config file")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.NewRuntime(ctx, *configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer rt.Close()

	if err := run(ctx, rt, args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, rt *bootstrap.Runtime, args []string) error {
	switch args[0] {
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("login expects exactly one token argument")
		}
		return rt.TokenStore().Set(ctx, args[1])
	case "logout":
		return rt.TokenStore().Clear(ctx)
	case "countries", "leagues", "teams", "seasons":
		if len(args) < 2 {
			return fmt.Errorf("missing subcommand for %s", args[0])
		}
		return runResource(ctx, rt.Service(), args[0], args[1], args[2:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runResource(ctx context.Context, svc *application.Service, resource, verb string, rest []string) error {
	switch verb {
	case "list":
		p, err := parseListFlags(rest)
		if err != nil {
			return err
		}
		return runList(ctx, svc, resource, p)
	case "get":
		if len(rest) != 1 {
			return fmt.Errorf("get expects an id")
		}
		return runGet(ctx, svc, resource, rest[0])
	case "create":
		if len(rest) != 1 {
			return fmt.Errorf("create expects a JSON payload")
		}
		return runCreate(ctx, svc, resource, []byte(rest[0]))
	case "patch":
		if len(rest) != 2 {
			return fmt.Errorf("patch expects an id and a JSON payload")
		}
		return runPatch(ctx, svc, resource, rest[0], []byte(rest[1]))
	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("delete expects an id")
		}
		return runDelete(ctx, svc, resource, rest[0])
	default:
		return fmt.Errorf("unknown subcommand %q", verb)
	}
}

func parseListFlags(args []string) (application.ListParams, error) {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", 20, "page size")
	search := fs.String("search", "", "search query")
	ordering := fs.String("ordering", "", "ordering field, - prefix for descending")
	if err := fs.Parse(args); err != nil {
		return application.ListParams{}, err
	}
	return application.ListParams{Page: *page, PageSize: *size, Search: *search, Ordering: *ordering}, nil
}

func runList(ctx context.Context, svc *application.Service, resource string, p application.ListParams) error {
	switch resource {
	case "countries":
		env, err := svc.CountryList(ctx, application.CountryListParams{ListParams: p})
		return printEnvelope(env.Count, env.Results, err)
	case "leagues":
		env, err := svc.LeagueList(ctx, application.LeagueListParams{ListParams: p})
		return printEnvelope(env.Count, env.Results, err)
	case "teams":
		env, err := svc.TeamList(ctx, application.TeamListParams{ListParams: p})
		return printEnvelope(env.Count, env.Results, err)
	default:
		env, err := svc.SeasonList(ctx, application.SeasonListParams{ListParams: p})
		return printEnvelope(env.Count, env.Results, err)
	}
}

func runGet(ctx context.Context, svc *application.Service, resource, id string) error {
	switch resource {
	case "countries":
		out, err := svc.Country(ctx, id)
		return printValue(out, err)
	case "leagues":
		out, err := svc.League(ctx, id)
		return printValue(out, err)
	case "teams":
		out, err := svc.Team(ctx, id)
		return printValue(out, err)
	default:
		out, err := svc.Season(ctx, id)
		return printValue(out, err)
	}
}

func runCreate(ctx context.Context, svc *application.Service, resource string, payload []byte) error {
	switch resource {
	case "countries":
		var dto domain.CreateCountry
		if err := json.Unmarshal(payload, &dto); err != nil {
			return fmt.Errorf("parse payload: %w", err)
		}
		out, err := svc.CreateCountry(ctx, dto)
		return printValue(out, err)
	case "leagues":
		var dto domain.CreateLeague
		if err := json.Unmarshal(payload, &dto); err != nil {
			return fmt.Errorf("parse payload: %w", err)
		}
		out, err := svc.CreateLeague(ctx, dto)
		return printValue(out, err)
	case "teams":
		var dto domain.CreateTeam
		if err := json.Unmarshal(payload, &dto); err != nil {
			return fmt.Errorf("parse payload: %w", err)
		}
		out, err := svc.CreateTeam(ctx, dto)
		return printValue(out, err)
	default:
		var dto domain.CreateSeason
		if err := json.Unmarshal(payload, &dto); err != nil {
			return fmt.Errorf("parse payload: %w", err)
		}
		out, err := svc.CreateSeason(ctx, dto)
		return printValue(out, err)
	}
}

func runPatch(ctx context.Context, svc *application.Service, resource, id string, payload []byte) error {
	switch resource {
	case "countries":
		var dto domain.UpdateCountry
		if err := json.Unmarshal(payload, &dto); err != nil {
			return fmt.Errorf("parse payload: %w", err)
		}
		out, err := svc.PatchCountry(ctx, id, dto)
		return printValue(out, err)
	case "leagues":
		var dto domain.UpdateLeague
		if err := json.Unmarshal(payload, &dto); err != nil {
			return fmt.Errorf("parse payload: %w", err)
		}
		out, err := svc.PatchLeague(ctx, id, dto)
		return printValue(out, err)
	case "teams":
		var dto domain.UpdateTeam
		if err := json.Unmarshal(payload, &dto); err != nil {
			return fmt.Errorf("parse payload: %w", err)
		}
		out, err := svc.PatchTeam(ctx, id, dto)
		return printValue(out, err)
	default:
		var dto domain.UpdateSeason
		if err := json.Unmarshal(payload, &dto); err != nil {
			return fmt.Errorf("parse payload: %w", err)
		}
		out, err := svc.PatchSeason(ctx, id, dto)
		return printValue(out, err)
	}
}

func runDelete(ctx context.Context, svc *application.Service, resource, id string) error {
	var err error
	switch resource {
	case "countries":
		err = svc.DeleteCountry(ctx, id)
	case "leagues":
		err = svc.DeleteLeague(ctx, id)
	case "teams":
		err = svc.DeleteTeam(ctx, id)
	default:
		err = svc.DeleteSeason(ctx, id)
	}
	if err != nil {
		return err
	}
	fmt.Println("deleted", resource, id)
	return nil
}

func printEnvelope[T any](count int, results []T, err error) error {
	if err != nil {
		return err
	}
	fmt.Printf("%d total\n", count)
	return printValue(results, nil)
}

func printValue(v any, err error) error {
	if err != nil {
		return err
	}
	out, marshalErr := json.MarshalIndent(v, "", "  ")
	if marshalErr != nil {
		return marshalErr
	}
	fmt.Println(string(out))
	return nil
}
