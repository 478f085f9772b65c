// Package report renders and logs the periodic CRM summaries consumed by
// external scheduler and heartbeat collaborators.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"crm-backend/internal/crm"
)

const (
	heartbeatLayout = "02/01/2006-15:04:05"
	logLayout       = "2006-01-02 15:04:05"
)

// Heartbeat appends a liveness line in the scheduler's expected format.
func Heartbeat(w io.Writer, now time.Time) error {
	_, err := fmt.Fprintf(w, "%s CRM is alive\n", now.Format(heartbeatLayout))
	return err
}

// WriteSummary appends a one-line aggregate report.
func WriteSummary(w io.Writer, now time.Time, s crm.Summary) error {
	_, err := fmt.Fprintf(w, "%s - Report: %d customers, %d orders, $%s revenue.\n",
		now.Format(logLayout), s.Customers, s.Orders, s.Revenue.StringFixed(2))
	return err
}

// WriteRestockLog appends the outcome of a restock run with the new stock
// level of every touched product.
func WriteRestockLog(w io.Writer, now time.Time, res crm.RestockResult) error {
	if _, err := fmt.Fprintf(w, "--- Stock Update Log [%s] ---\n", now.Format(logLayout)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Status: %s\n", res.Message); err != nil {
		return err
	}
	for _, p := range res.Updated {
		if _, err := fmt.Fprintf(w, "  - Restocked %q to new stock level: %d\n", p.Name, p.Stock); err != nil {
			return err
		}
	}
	return nil
}

// WriteReminders appends one reminder line per recent order. Orders are
// expected to carry their preloaded Customer.
func WriteReminders(w io.Writer, now time.Time, orders []crm.Order) error {
	if _, err := fmt.Fprintf(w, "--- Reminder Log [%s] ---\n", now.Format(logLayout)); err != nil {
		return err
	}
	if len(orders) == 0 {
		_, err := fmt.Fprintln(w, "No recent orders found to process.")
		return err
	}
	for _, o := range orders {
		if _, err := fmt.Fprintf(w, "Reminder for Order ID: %d, Customer: %s\n", o.ID, o.Customer.Email); err != nil {
			return err
		}
	}
	return nil
}

// RenderSummaryTable prints the aggregates as a console table.
func RenderSummaryTable(w io.Writer, s crm.Summary) error {
	table := tablewriter.NewTable(w)
	table.Header("Metric", "Value")
	rows := [][]string{
		{"Customers", strconv.FormatInt(s.Customers, 10)},
		{"Orders", strconv.FormatInt(s.Orders, 10)},
		{"Revenue", "$" + s.Revenue.StringFixed(2)},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderRestockTable prints the restocked products as a console table.
func RenderRestockTable(w io.Writer, res crm.RestockResult) error {
	table := tablewriter.NewTable(w)
	table.Header("ID", "Product", "Stock")
	for _, p := range res.Updated {
		row := []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			strconv.Itoa(p.Stock),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// AppendToFile opens path for appending, creating it if needed, and hands
// the file to fn.
func AppendToFile(path string, fn func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}
