package app

import (
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/klabast/wb-services/trash-calendar/internal/schedule"
)

type printCell struct {
	Day     int
	Classes string
}

type printMonth struct {
	Title  string
	Blanks []struct{}
	Cells  []printCell
}

type printPage struct {
	Street  string
	Weekday string
	Months  []printMonth
}

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Mt. Lebo Trash Collection - {{.Street}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; background: white; color: black; }
        .print-header { text-align: center; margin-bottom: 30px; border-bottom: 2px solid #333; padding-bottom: 15px; }
        .calendar-container { display: flex; flex-wrap: wrap; gap: 20px; justify-content: center; }
        .month-calendar { width: 300px; margin-bottom: 20px; }
        .month-title { text-align: center; font-size: 18px; font-weight: bold; margin-bottom: 10px; }
        .print-calendar { display: grid; grid-template-columns: repeat(7, 1fr); gap: 2px; border: 1px solid #333; }
        .print-day-header { background: #f0f0f0; padding: 8px 4px; text-align: center; font-weight: bold; font-size: 12px; }
        .print-day { padding: 8px 4px; text-align: center; font-size: 12px; border: 1px solid #ccc; min-height: 30px; position: relative; }
        .print-day.pickup { background: #f0f0f0; border: 2px solid #333; font-weight: bold; }
        .print-day.recycling { background: #e0e0e0; border: 2px solid #666; }
        .print-day.recycling::after { content: '\267B'; position: absolute; top: 1px; right: 1px; font-size: 12px; }
        .print-day.holiday { background: #f5f5f5; border: 1px solid #999; }
        .print-day.holiday::after { content: '\2605'; position: absolute; top: 1px; right: 1px; font-size: 10px; }
        .print-day.empty { background: #fafafa; }
        .legend { margin-top: 20px; text-align: center; font-size: 12px; }
        .legend-item { display: inline-block; margin: 0 10px; }
        @media print { body { padding: 10px; } @page { margin: 0.5in; } }
    </style>
</head>
<body>
    <div class="print-header">
        <h1>Mt. Lebo Trash Collection</h1>
        <p>{{.Street}} - {{.Weekday}} Pickup</p>
    </div>
    <div class="calendar-container">
{{- range .Months}}
        <div class="month-calendar">
            <div class="month-title">{{.Title}}</div>
            <div class="print-calendar">
                <div class="print-day-header">S</div><div class="print-day-header">M</div><div class="print-day-header">T</div><div class="print-day-header">W</div><div class="print-day-header">T</div><div class="print-day-header">F</div><div class="print-day-header">S</div>
                {{- range .Blanks}}<div class="print-day empty"></div>{{end}}
                {{- range .Cells}}<div class="{{.Classes}}">{{.Day}}</div>{{end}}
            </div>
        </div>
{{- end}}
    </div>
    <div class="legend">
        <div class="legend-item">&#9632; Trash Collection</div>
        <div class="legend-item">&#9851; Trash &amp; Recycling</div>
        <div class="legend-item">&#9733; Holiday</div>
    </div>
    <div style="margin-top: 20px; text-align: center; font-size: 10px; color: #666;">
        Information sourced from https://mtlebanon.org/residents/public-works/garbage/
    </div>
</body>
</html>
`))

// printClasses mirrors the grid: recycling only marks pickups, any holiday gets a star
func printClasses(d schedule.Day) string {
	classes := "print-day"
	if d.IsPickup {
		classes += " pickup"
		if d.IsRecycling {
			classes += " recycling"
		}
	}
	if d.IsHoliday {
		classes += " holiday"
	}
	return classes
}

// GeneratePrintHTML renders a static print page for the months in order
func GeneratePrintHTML(w io.Writer, engine *schedule.Engine, street Street, year int, from time.Month) error {
	_, weekday, err := ParseCollectionDay(street.Day)
	if err != nil {
		return err
	}

	page := printPage{
		Street:  FormatStreetName(street.Name),
		Weekday: street.Day,
	}

	for month := from; month <= time.December; month++ {
		days, err := engine.Month(year, month, weekday)
		if err != nil {
			return err
		}

		pm := printMonth{
			Title:  month.String() + " " + strconv.Itoa(year),
			Blanks: make([]struct{}, int(schedule.Date(year, month, 1).Weekday())),
		}
		for _, d := range days {
			pm.Cells = append(pm.Cells, printCell{Day: d.Date.Day(), Classes: printClasses(d)})
		}
		page.Months = append(page.Months, pm)
	}

	return printTemplate.Execute(w, page)
}
