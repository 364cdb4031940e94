package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/harrisonrobin/tablero/pkg/adapter"
	"github.com/harrisonrobin/tablero/pkg/aggregate"
	"github.com/harrisonrobin/tablero/pkg/auth"
	"github.com/harrisonrobin/tablero/pkg/config"
	"github.com/harrisonrobin/tablero/pkg/filter"
	"github.com/harrisonrobin/tablero/pkg/google"
	"github.com/harrisonrobin/tablero/pkg/model"
	"github.com/harrisonrobin/tablero/pkg/normalize"
	"github.com/harrisonrobin/tablero/pkg/overdue"
	"github.com/harrisonrobin/tablero/pkg/report"
	"github.com/harrisonrobin/tablero/pkg/snapshot"
	"github.com/harrisonrobin/tablero/pkg/source"
)

// output is the -json document.
type output struct {
	Today         string            `json:"today"`
	Total         int               `json:"total"`
	Summary       aggregate.Summary `json:"summary"`
	Collaborators []string          `json:"collaborators"`
	Overdue       []model.Task      `json:"overdue"`
	Tasks         []model.Task      `json:"tasks"`
}

func main() {
	// 1. Parse Flags
	sourceName := flag.String("source", "api", "Where to read tasks from: api, sheet or file")
	filePath := flag.String("file", "-", "JSON file to read with -source file ('-' for stdin)")
	apiURL := flag.String("api-url", "", "Task API base URL (overrides config)")
	setAPIURL := flag.String("set-api-url", "", "Save the default task API base URL")
	setSpreadsheet := flag.String("set-spreadsheet", "", "Save the default spreadsheet id")
	doAuth := flag.Bool("auth", false, "Authenticate with Google Sheets")
	offline := flag.Bool("offline", false, "Render the last cached response instead of fetching")
	todayFlag := flag.String("today", "", "Reference date for overdue checks (default: today)")
	top := flag.Int("top", 0, "Collaborators listed before grouping the rest (overrides config)")
	asJSON := flag.Bool("json", false, "Print the summary and tasks as JSON")

	status := flag.String("status", "", "Filter by status")
	priority := flag.String("priority", "", "Filter by priority")
	collaborator := flag.String("collaborator", "", "Filter by collaborator")
	from := flag.String("from", "", "Created on or after this date")
	to := flag.String("to", "", "Created on or before this date")
	board := flag.String("board", "", "Filter by board")
	query := flag.String("q", "", "Search in title and description")
	overdueOnly := flag.String("overdue", "", "Only overdue (true) or on-time (false) tasks")
	flag.Parse()

	// 2. Load config; flags win over the file.
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: could not load config, using defaults: %v", err)
		cfg = config.Default()
	}

	// 3. Handle Set Defaults
	if *setAPIURL != "" || *setSpreadsheet != "" {
		if *setAPIURL != "" {
			cfg.APIURL = *setAPIURL
		}
		if *setSpreadsheet != "" {
			cfg.SpreadsheetID = *setSpreadsheet
		}
		if err := config.Save(cfg); err != nil {
			log.Fatalf("Error saving config: %v", err)
		}
		fmt.Println("Configuration saved.")
		return
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}
	if *top > 0 {
		cfg.TopCollaborators = *top
	}

	ctx := context.Background()

	// 4. Handle Authentication
	if *doAuth {
		if err := auth.ResetToken(); err != nil {
			log.Fatalf("%v. Please delete it manually", err)
		}
		if _, err := auth.GetClient(ctx, auth.SheetsScopes); err != nil {
			log.Fatalf("Authentication failed: %v", err)
		}
		log.Printf("Authentication successful! Token saved to %s", auth.TokenFile)
		return
	}

	// 5. Reference date and filters
	today := civil.DateOf(time.Now())
	if *todayFlag != "" {
		d := normalize.Date(*todayFlag)
		if d == nil {
			log.Fatalf("Invalid -today date: %q", *todayFlag)
		}
		today = *d
	}

	spec, err := filter.ParseSpec(map[string]string{
		"estado":      *status,
		"prioridad":   *priority,
		"colaborador": *collaborator,
		"fechaDesde":  *from,
		"fechaHasta":  *to,
		"tablero":     *board,
		"q":           *query,
		"vencida":     *overdueOnly,
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	// 6. Fetch, falling back to the last snapshot
	res, err := fetch(ctx, cfg, *sourceName, *filePath, *offline, serverQuery(spec))
	if err != nil {
		log.Fatalf("Error fetching tasks: %v", err)
	}

	// 7. Normalize, filter, aggregate
	tasks := adapter.AdaptResponse(res.Body, today)
	visible := filter.Apply(tasks, spec)
	summary := aggregate.Aggregate(visible,
		aggregate.WithReferenceDate(today),
		aggregate.WithTopCollaborators(cfg.TopCollaborators),
		aggregate.WithLongTaskDays(cfg.LongTaskDays),
	)

	if *asJSON {
		out := output{
			Today:         today.String(),
			Total:         res.Total,
			Summary:       summary,
			Collaborators: filter.Collaborators(tasks),
			Overdue:       overdue.Sweep(visible, today),
			Tasks:         visible,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.Fatalf("Error encoding output: %v", err)
		}
		return
	}

	if err := report.Write(os.Stdout, summary, visible, res.Total, today); err != nil {
		log.Fatalf("Error writing report: %v", err)
	}
}

// snapshotMaxAge bounds how long a cached response is kept around.
const snapshotMaxAge = 30 * 24 * time.Hour

// fetch reads from the selected source. Successful responses are cached per
// source and request; when the source fails (or offline is set) the cached
// copy for the same request is used.
func fetch(ctx context.Context, cfg *config.Config, name, path string, offline bool, q source.Query) (*source.Response, error) {
	store, err := snapshot.NewStore()
	if err != nil {
		log.Printf("Warning: failed to open snapshot cache: %v", err)
	}

	if offline {
		return fromSnapshot(store, snapshotKey(name, q), nil)
	}

	var fetcher source.Fetcher
	switch name {
	case "api":
		fetcher = source.NewClient(cfg.APIURL, cfg.Endpoint, time.Duration(cfg.TimeoutSeconds)*time.Second)
	case "sheet":
		gClient, err := google.NewClient(ctx, cfg.SpreadsheetID, cfg.SheetRange)
		if err != nil {
			log.Printf("Error creating Google Sheets client: %v", err)
			return fromSnapshot(store, snapshotKey(name, q), err)
		}
		fetcher = gClient
	case "file":
		// Local documents are not cached.
		return (&source.FileFetcher{Path: path}).Fetch(ctx, q)
	default:
		return nil, fmt.Errorf("unknown source %q (want api, sheet or file)", name)
	}
	return fetchCached(ctx, store, name, fetcher, q, time.Now())
}

// fetchCached runs fetcher and stores the response under the request's key,
// falling back to that key's snapshot when the fetch fails. store may be nil.
func fetchCached(ctx context.Context, store *snapshot.Store, name string, fetcher source.Fetcher, q source.Query, now time.Time) (*source.Response, error) {
	key := snapshotKey(name, q)
	res, err := fetcher.Fetch(ctx, q)
	if err != nil {
		log.Printf("Warning: %v", err)
		return fromSnapshot(store, key, err)
	}
	if store != nil {
		store.Put(key, res.Body, res.Total, now)
		if n := store.Prune(now.Add(-snapshotMaxAge)); n > 0 {
			log.Printf("Dropped %d expired cached responses", n)
		}
		if err := store.Save(); err != nil {
			log.Printf("Warning: failed to save snapshot cache: %v", err)
		}
	}
	return res, nil
}

// fromSnapshot returns the cached response for key, or cause when there is
// none.
func fromSnapshot(store *snapshot.Store, key string, cause error) (*source.Response, error) {
	if store != nil {
		if e, ok := store.Get(key); ok {
			log.Printf("Using cached response for %s from %s", key, e.FetchedAt.Format(time.RFC3339))
			return &source.Response{Body: e.Body, Total: e.Total}, nil
		}
	}
	if cause == nil {
		cause = fmt.Errorf("no cached response for %s", key)
	}
	return nil, cause
}

// snapshotKey identifies a cached response by source and the parameters it
// was requested with, so a filtered subset is never served for a wider
// request.
func snapshotKey(name string, q source.Query) string {
	return name + "?" + q.Values().Encode()
}

// serverQuery mirrors the local filter into API parameters so the server can
// narrow the response. The local filter still runs on whatever comes back.
func serverQuery(spec filter.Spec) source.Query {
	q := source.Query{Board: spec.Board, Search: spec.Query, Overdue: spec.Overdue}
	if spec.Status != "" {
		q.Status = []string{string(spec.Status)}
	}
	if spec.Priority != "" {
		q.Priority = []string{string(spec.Priority)}
	}
	if spec.Collaborator != "" {
		q.Collaborator = []string{spec.Collaborator}
	}
	if spec.DateFrom != nil {
		q.From = spec.DateFrom.String()
	}
	if spec.DateTo != nil {
		q.To = spec.DateTo.String()
	}
	return q
}
