// Package print renders CLI output as tables or JSON.
package print

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/jrsteele09/arcash/model"
)

const FormatJSON = "json"

func NewTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
}

func printJSON(out io.Writer, v any) {
	str, _ := json.MarshalIndent(v, "", "    ")
	fmt.Fprintln(out, string(str))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func Account(out io.Writer, acc model.Account, format string) {
	if format == FormatJSON {
		printJSON(out, acc)
		return
	}
	w := NewTabWriter(out)
	defer w.Flush()

	fmtColumns := "%s\t%s\t%s\t%.2f %s\n"
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", "ACCOUNT", "ALIAS", "CVU", "BALANCE")
	fmt.Fprintf(w, fmtColumns, acc.AccountID, acc.Alias, acc.CVU, acc.Balance, acc.Currency)
}

// Transactions prints txs from the point of view of accountID: money leaving it is negative.
func Transactions(out io.Writer, txs []model.Transaction, accountID string, format string) {
	if format == FormatJSON {
		printJSON(out, txs)
		return
	}
	w := NewTabWriter(out)
	defer w.Flush()

	fmtColumns := "%s\t%s\t%s\t%s\t%s\n"
	fmt.Fprintf(w, fmtColumns, "DATE", "TYPE", "COUNTERPART", "AMOUNT", "DESCRIPTION")
	for _, tx := range txs {
		amount := fmt.Sprintf("%.2f", tx.Amount)
		counterpart := tx.FromAccountID
		if tx.FromAccountID == accountID {
			amount = "-" + amount
			counterpart = tx.ToAccountID
		}
		if counterpart == "" {
			counterpart = "-"
		}
		fmt.Fprintf(w, fmtColumns, formatTime(tx.CreatedAt), tx.Type, counterpart, amount, tx.Description)
	}
}

func Recipients(out io.Writer, recipients []model.Recipient, format string) {
	if format == FormatJSON {
		printJSON(out, recipients)
		return
	}
	w := NewTabWriter(out)
	defer w.Flush()

	fmtColumns := "%s\t%s\t%s\t%s\n"
	fmt.Fprintf(w, fmtColumns, "ACCOUNT", "ALIAS", "CVU", "OWNER")
	for _, r := range recipients {
		fmt.Fprintf(w, fmtColumns, r.AccountID, r.Alias, r.CVU, r.OwnerName)
	}
}

func Favorites(out io.Writer, favs []model.Favorite, format string) {
	if format == FormatJSON {
		printJSON(out, favs)
		return
	}
	w := NewTabWriter(out)
	defer w.Flush()

	fmtColumns := "%s\t%s\t%s\t%s\n"
	fmt.Fprintf(w, fmtColumns, "ID", "NAME", "ALIAS", "ACCOUNT")
	for _, f := range favs {
		fmt.Fprintf(w, fmtColumns, f.ID, f.Name, f.Alias, f.AccountID)
	}
}

func Users(out io.Writer, users []model.User, format string) {
	if format == FormatJSON {
		printJSON(out, users)
		return
	}
	w := NewTabWriter(out)
	defer w.Flush()

	fmtColumns := "%s\t%s\t%s\t%s\t%v\t%v\t%s\n"
	fmt.Fprintf(w, fmtColumns, "ID", "EMAIL", "NAME", "ROLE", "VERIFIED", "BLOCKED", "JOINED")
	for _, u := range users {
		name := u.Name
		if u.Surname != "" {
			name += " " + u.Surname
		}
		fmt.Fprintf(w, fmtColumns, u.ID, u.Email, name, u.Role, u.Verified, u.Blocked, formatTime(u.CreatedAt))
	}
}

func User(out io.Writer, u model.User, format string) {
	if format == FormatJSON {
		printJSON(out, u)
		return
	}
	w := NewTabWriter(out)
	defer w.Flush()

	fmt.Fprintf(w, "ID:\t%s\n", u.ID)
	fmt.Fprintf(w, "Name:\t%s %s\n", u.Name, u.Surname)
	fmt.Fprintf(w, "Email:\t%s\n", u.Email)
	if u.DNI != "" {
		fmt.Fprintf(w, "DNI:\t%s\n", u.DNI)
	}
	fmt.Fprintf(w, "Role:\t%s\n", u.Role)
	fmt.Fprintf(w, "Account:\t%s\n", u.AccountID)
	fmt.Fprintf(w, "Verified:\t%v\n", u.Verified)
	fmt.Fprintf(w, "Blocked:\t%v\n", u.Blocked)
}

func TaxBreakdown(out io.Writer, b model.TaxBreakdown, format string) {
	if format == FormatJSON {
		printJSON(out, b)
		return
	}
	w := NewTabWriter(out)
	defer w.Flush()

	fmt.Fprintf(w, "Amount:\t%.2f %s\n", b.Amount, b.Currency)
	if b.Currency != "ARS" {
		fmt.Fprintf(w, "Exchange rate:\t%.2f\n", b.ExchangeRate)
	}
	fmt.Fprintf(w, "Base (ARS):\t%.2f\n", b.BaseARS)
	fmt.Fprintf(w, "PAIS tax:\t%.2f\n", b.PaisTax)
	fmt.Fprintf(w, "Ganancias tax:\t%.2f\n", b.GananciasTax)
	fmt.Fprintf(w, "Total (ARS):\t%.2f\n", b.Total)
}

// Message prints a backend acknowledgement, or fallback when the backend sent none.
func Message(out io.Writer, m model.Message, fallback string, format string) {
	if format == FormatJSON {
		printJSON(out, m)
		return
	}
	if m.Message == "" {
		m.Message = fallback
	}
	Success(out, "%s", m.Message)
}
