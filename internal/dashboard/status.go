package dashboard

import (
	"github.com/careboard/careboard/internal/domain/appointment"
)

// Category is the presentation metadata for one appointment status.
type Category struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// categories is total over the status enum; TestCategoryTotality asserts
// it covers every member of appointment.Statuses().
var categories = map[appointment.Status]Category{
	appointment.StatusScheduled: {Name: "pending", Icon: "clock", Color: "orange"},
	appointment.StatusCompleted: {Name: "success", Icon: "check-circle", Color: "green"},
	appointment.StatusCancelled: {Name: "failed", Icon: "x-circle", Color: "red"},
}

// CategoryFor maps a status to its presentation category.
func CategoryFor(s appointment.Status) Category {
	return categories[s]
}
