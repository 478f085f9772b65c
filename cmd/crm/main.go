package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"crm-backend/internal/crm"
	"crm-backend/internal/db"
	"crm-backend/internal/report"
)

func main() {
	var (
		skipSeed     = flag.Bool("skip-seed", false, "skip inserting the sample dataset")
		runRestock   = flag.Bool("restock", false, "run the low-stock reconciliation")
		printReport  = flag.Bool("report", true, "print the aggregate summary table")
		heartbeatLog = flag.String("heartbeat-log", "", "append a heartbeat line to this file")
		reportLog    = flag.String("report-log", "", "append the summary report to this file")
		restockLog   = flag.String("restock-log", "", "append restock outcomes to this file")
		remindersLog = flag.String("reminders-log", "", "append reminders for the last week's orders to this file")
	)
	flag.Parse()

	cfg := db.FromEnv()
	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect to MySQL: %v", err)
	}

	if err := crm.EnsureSchema(gdb); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	ctx := context.Background()

	if !*skipSeed {
		if err := crm.SeedSampleData(ctx, gdb); err != nil {
			log.Fatalf("failed to seed sample data: %v", err)
		}
		log.Printf("sample dataset ready")
	} else {
		log.Printf("skip-seed enabled; reusing existing data")
	}

	if *heartbeatLog != "" {
		err := report.AppendToFile(*heartbeatLog, func(w io.Writer) error {
			return report.Heartbeat(w, time.Now())
		})
		if err != nil {
			log.Printf("failed to write heartbeat: %v", err)
		}
	}

	engine := crm.NewEngine(gdb)
	queries := crm.NewQueries(gdb)

	if *runRestock {
		res, err := engine.UpdateLowStock(ctx)
		if err != nil {
			log.Fatalf("low-stock reconciliation failed: %v", err)
		}
		log.Printf("restock: %s", res.Message)
		if len(res.Updated) > 0 {
			if err := report.RenderRestockTable(os.Stdout, res); err != nil {
				log.Printf("failed to render restock table: %v", err)
			}
		}
		if *restockLog != "" {
			err := report.AppendToFile(*restockLog, func(w io.Writer) error {
				return report.WriteRestockLog(w, time.Now(), res)
			})
			if err != nil {
				log.Printf("failed to write restock log: %v", err)
			}
		}
	}

	if *remindersLog != "" {
		since := time.Now().AddDate(0, 0, -7)
		recent, err := queries.ListOrders(ctx, crm.OrderFilter{DateFrom: &since})
		if err != nil {
			log.Fatalf("failed to collect recent orders: %v", err)
		}
		err = report.AppendToFile(*remindersLog, func(w io.Writer) error {
			return report.WriteReminders(w, time.Now(), recent)
		})
		if err != nil {
			log.Printf("failed to write reminders log: %v", err)
		}
	}

	if *printReport {
		summary, err := queries.Report(ctx)
		if err != nil {
			log.Fatalf("failed to collect summary: %v", err)
		}
		if err := report.RenderSummaryTable(os.Stdout, summary); err != nil {
			log.Printf("failed to render summary table: %v", err)
		}
		if *reportLog != "" {
			err := report.AppendToFile(*reportLog, func(w io.Writer) error {
				return report.WriteSummary(w, time.Now(), summary)
			})
			if err != nil {
				log.Printf("failed to write report log: %v", err)
			}
		}
	}
}
