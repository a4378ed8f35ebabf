// Package export renders admin reports as downloadable CSV, XLSX, and PDF files.
// All three formats share the Table intermediate form so each resource only has
// to define one row mapping.
package export

import (
	"strconv"
	"time"

	"github.com/vijana-portal/vijana-portal/internal/db/models"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ValidFormat reports whether format is one of the supported export formats
func ValidFormat(format string) bool {
	return format == FormatCSV || format == FormatXLSX || format == FormatPDF
}

// ContentType returns the MIME type served for a format
func ContentType(format string) string {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// Table is the format-independent shape of a report
type Table struct {
	// Title appears as the sheet name (XLSX) and document heading (PDF)
	Title   string
	Headers []string
	Rows    [][]string
}

const dateLayout = "2006-01-02"

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OpportunitiesTable maps opportunity listings to report rows
func OpportunitiesTable(opps []*models.Opportunity) *Table {
	t := &Table{
		Title:   "Opportunities",
		Headers: []string{"Title", "Category", "Organization", "Location", "Deadline", "Published", "Created"},
	}
	for _, opp := range opps {
		published := "No"
		if opp.Published {
			published = "Yes"
		}
		t.Rows = append(t.Rows, []string{
			opp.Title,
			derefStr(opp.CategoryName),
			derefStr(opp.Organization),
			derefStr(opp.Location),
			formatTimePtr(opp.Deadline),
			published,
			opp.CreatedAt.Format(dateLayout),
		})
	}
	return t
}

// YouthTable maps youth accounts to report rows
func YouthTable(users []*models.User) *Table {
	t := &Table{
		Title:   "Youth Accounts",
		Headers: []string{"Full Name", "Email", "Phone", "Ward", "Birth Year", "Education", "Active", "Registered"},
	}
	for _, user := range users {
		active := "No"
		if user.Active {
			active = "Yes"
		}
		birthYear := ""
		if user.BirthYear != nil {
			birthYear = strconv.Itoa(*user.BirthYear)
		}
		t.Rows = append(t.Rows, []string{
			user.FullName,
			user.Email,
			derefStr(user.Phone),
			derefStr(user.Ward),
			birthYear,
			derefStr(user.Education),
			active,
			user.CreatedAt.Format(dateLayout),
		})
	}
	return t
}

// AuditTable maps audit trail entries to report rows
func AuditTable(events []*models.AuditEvent) *Table {
	t := &Table{
		Title:   "Audit Trail",
		Headers: []string{"Time", "Action", "Entity", "Entity ID", "Actor", "Role", "Description", "IP Address"},
	}
	for _, event := range events {
		t.Rows = append(t.Rows, []string{
			event.CreatedAt.Format(time.RFC3339),
			event.Action,
			event.Entity,
			derefStr(event.EntityID),
			derefStr(event.ActorID),
			derefStr(event.Role),
			event.Description,
			derefStr(event.IPAddress),
		})
	}
	return t
}
