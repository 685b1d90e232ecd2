package templates

import (
	"embed"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

//go:embed *.html partials/*.html
var files embed.FS

// New parses every embedded view into one template set. Pages and partials
// are looked up by their {{define}} names.
func New() (*template.Template, error) {
	t, err := template.New("").Funcs(Funcs()).ParseFS(files, "*.html", "partials/*.html")
	return t, errors.Wrap(err, "error parsing embedded templates")
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"fmtPrice":       fmtPrice,
		"fmtAmount":      fmtAmount,
		"fmtAmountPlain": fmtAmountPlain,
		"fmtDate":        fmtDate,
		"priceStatus":    PriceStatus,
		"savings":        savings,
	}
}

// PriceStatus returns the CSS class for the price badge: "deal" when the
// current price is at or below target, "close" when within 10% above it,
// "high" otherwise, "neutral" when either side is unknown.
func PriceStatus(current, target *float64) string {
	if current == nil || target == nil {
		return "neutral"
	}
	if *current <= *target {
		return "deal"
	}
	if *current <= *target*1.1 {
		return "close"
	}
	return "high"
}

func fmtPrice(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmtAmount(*v)
}

func fmtAmount(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// fmtAmountPlain renders a price without currency formatting, for form
// input values.
func fmtAmountPlain(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("Jan 02, 2006 15:04")
}

func savings(current, target *float64) string {
	if current == nil || target == nil {
		return ""
	}
	return fmtAmount(*current - *target)
}
