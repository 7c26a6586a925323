package resolver

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopwire/content-engine/internal/domain"
	"github.com/shopwire/content-engine/internal/imageproxy"
	"github.com/shopwire/content-engine/internal/logging"
)

// Defaults applied when a row carries no value.
const (
	DefaultTitle       = "Untitled Product"
	DefaultDescription = "No description available"
	DefaultCurrency    = "INR"
)

// Unix timestamps below this are seconds, above it milliseconds.
const epochMillisThreshold = 10_000_000_000

// Normalizer shapes heterogeneous raw rows into canonical content records.
// Rows mix camelCase convenience fields with snake_case columns and may carry
// a JSON attributes blob; the normalizer prefers camelCase, falls back to
// snake_case, then to the blob, then to documented defaults. One bad field
// never fails the record and one bad record never fails the batch.
type Normalizer struct {
	proxy *imageproxy.Rewriter
	log   logging.Logger
}

func NewNormalizer(proxy *imageproxy.Rewriter, log logging.Logger) *Normalizer {
	if log == nil {
		log = logging.NewNop()
	}
	return &Normalizer{proxy: proxy, log: log}
}

// NormalizeAll maps a result set, keeping every record that survives.
func (n *Normalizer) NormalizeAll(rows []domain.RawRecord) []domain.ContentRecord {
	out := make([]domain.ContentRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, n.Normalize(row))
	}
	return out
}

// Normalize shapes one raw row.
func (n *Normalizer) Normalize(raw domain.RawRecord) domain.ContentRecord {
	row := n.withAttributes(raw)

	rec := domain.ContentRecord{
		ID:            intField(row, "id"),
		Name:          stringField(row, "name", "title"),
		Description:   stringField(row, "description"),
		Price:         stringField(row, "price"),
		OriginalPrice: stringField(row, "originalPrice", "original_price"),
		Currency:      stringField(row, "currency"),
		Category:      stringField(row, "category"),
		Subcategory:   stringField(row, "subcategory"),
		Gender:        stringField(row, "gender"),
		Rating:        floatField(row, "rating"),
		ReviewCount:   intField(row, "reviewCount", "review_count"),
		Discount:      stringField(row, "discount"),
		IsNew:         boolField(row, "isNew", "is_new"),
		IsFeatured:    boolField(row, "isFeatured", "is_featured"),
		IsService:     boolField(row, "isService", "is_service"),
		IsAIApp:       boolField(row, "isAIApp", "is_ai_app"),
		CreatedAt:     timestampField(row, "createdAt", "created_at"),

		PricingType:      stringField(row, "pricingType", "pricing_type"),
		MonthlyPrice:     stringField(row, "monthlyPrice", "monthly_price"),
		YearlyPrice:      stringField(row, "yearlyPrice", "yearly_price"),
		PriceDescription: stringField(row, "priceDescription", "price_description"),
	}

	if rec.Name == "" {
		rec.Name = DefaultTitle
	}
	if rec.Description == "" {
		rec.Description = DefaultDescription
	}
	if rec.Currency == "" {
		rec.Currency = DefaultCurrency
	}
	if has(row, "isFree", "is_free") {
		free := boolField(row, "isFree", "is_free")
		rec.IsFree = &free
	}

	rec.ImageURL = n.imageURL(row)
	rec.AffiliateURL = n.affiliateURL(row)
	n.applyTimer(row, &rec)

	return rec
}

// withAttributes overlays the row on top of its parsed content blob, so
// field lookups see row columns first and blob fields as fallback. A
// malformed blob is logged and ignored.
func (n *Normalizer) withAttributes(raw domain.RawRecord) domain.RawRecord {
	blob := stringField(raw, "content", "tags")
	if blob == "" || !strings.HasPrefix(strings.TrimSpace(blob), "{") {
		return raw
	}

	var attrs map[string]any
	if err := json.Unmarshal([]byte(blob), &attrs); err != nil {
		n.log.Warn("malformed attributes blob, skipping",
			logging.Int64("id", intField(raw, "id")),
			logging.Error(err))
		return raw
	}

	merged := make(domain.RawRecord, len(attrs)+len(raw))
	for k, v := range attrs {
		merged[k] = v
	}
	for k, v := range raw {
		if v != nil {
			merged[k] = v
		}
	}
	return merged
}

func (n *Normalizer) imageURL(row domain.RawRecord) string {
	img := stringField(row, "imageUrl", "image_url", "image")
	if img == "" {
		if first := firstJSONElement(stringField(row, "media_urls", "mediaUrls")); first != "" {
			img = first
		}
	}
	return n.proxy.Rewrite(img)
}

// affiliateURL picks the outbound link. Explicit columns win; otherwise the
// affiliate_urls JSON field is scanned, preferring an external link over an
// internal /go/ redirect.
func (n *Normalizer) affiliateURL(row domain.RawRecord) string {
	if u := stringField(row, "affiliateUrl", "affiliate_url"); u != "" {
		return u
	}

	blob := stringField(row, "affiliate_urls", "affiliateUrls")
	if blob == "" {
		return ""
	}

	var candidates []string
	var asList []any
	if err := json.Unmarshal([]byte(blob), &asList); err == nil {
		for _, item := range asList {
			candidates = append(candidates, linkFrom(item))
		}
	} else {
		var asMap map[string]any
		if err := json.Unmarshal([]byte(blob), &asMap); err != nil {
			n.log.Warn("malformed affiliate_urls, skipping",
				logging.Int64("id", intField(row, "id")),
				logging.Error(err))
			return ""
		}
		for _, item := range asMap {
			candidates = append(candidates, linkFrom(item))
		}
	}

	fallback := ""
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if strings.HasPrefix(c, "http") && !strings.Contains(c, "/go/") {
			return c
		}
		if fallback == "" {
			fallback = c
		}
	}
	return fallback
}

// applyTimer computes the countdown fields. Explicit timer columns win; a
// legacy cookie duration in days converts to hours. The start time falls back
// to the creation timestamp. HasTimer needs both a positive duration and an
// established start.
func (n *Normalizer) applyTimer(row domain.RawRecord, rec *domain.ContentRecord) {
	duration := intField(row, "timerDuration", "timer_duration")
	if duration <= 0 {
		if days := intField(row, "cookieDurationDays", "cookie_duration_days"); days > 0 {
			duration = days * 24
		}
	}

	start := timestampField(row, "timerStartTime", "timer_start_time")
	if start == "" {
		start = rec.CreatedAt
	}

	if duration > 0 && start != "" {
		rec.HasTimer = true
		rec.TimerDuration = &duration
		rec.TimerStartTime = &start
	}
}

func linkFrom(item any) string {
	switch v := item.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		for _, key := range []string{"url", "link", "href"} {
			if s, ok := v[key].(string); ok && s != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func firstJSONElement(blob string) string {
	if blob == "" {
		return ""
	}
	var list []any
	if err := json.Unmarshal([]byte(blob), &list); err != nil || len(list) == 0 {
		return ""
	}
	s, _ := list[0].(string)
	return strings.TrimSpace(s)
}

func has(row domain.RawRecord, keys ...string) bool {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			return true
		}
	}
	return false
}

func stringField(row domain.RawRecord, keys ...string) string {
	for _, k := range keys {
		v, ok := row[k]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if t := strings.TrimSpace(s); t != "" {
				return t
			}
		case []byte:
			if t := strings.TrimSpace(string(s)); t != "" {
				return t
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		case int64:
			return strconv.FormatInt(s, 10)
		case bool:
			return strconv.FormatBool(s)
		}
	}
	return ""
}

func intField(row domain.RawRecord, keys ...string) int64 {
	for _, k := range keys {
		v, ok := row[k]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case int64:
			return x
		case int:
			return int64(x)
		case float64:
			return int64(x)
		case string:
			if i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
				return i
			}
		}
	}
	return 0
}

func floatField(row domain.RawRecord, keys ...string) float64 {
	for _, k := range keys {
		v, ok := row[k]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case float64:
			return x
		case int64:
			return float64(x)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func boolField(row domain.RawRecord, keys ...string) bool {
	for _, k := range keys {
		v, ok := row[k]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case bool:
			return x
		case int64:
			return x != 0
		case float64:
			return x != 0
		case string:
			t := strings.ToLower(strings.TrimSpace(x))
			return t == "1" || t == "true" || t == "yes"
		}
	}
	return false
}

// timestampField renders a timestamp-like value as RFC 3339. Numeric values
// below the threshold are seconds since epoch, above it milliseconds. Date
// strings pass through untouched.
func timestampField(row domain.RawRecord, keys ...string) string {
	for _, k := range keys {
		v, ok := row[k]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case int64:
			return epochToRFC3339(x)
		case float64:
			return epochToRFC3339(int64(x))
		case string:
			t := strings.TrimSpace(x)
			if t == "" {
				continue
			}
			if n, err := strconv.ParseInt(t, 10, 64); err == nil {
				return epochToRFC3339(n)
			}
			return t
		}
	}
	return ""
}

func epochToRFC3339(n int64) string {
	if n <= 0 {
		return ""
	}
	var t time.Time
	if n < epochMillisThreshold {
		t = time.Unix(n, 0)
	} else {
		t = time.UnixMilli(n)
	}
	return t.UTC().Format(time.RFC3339)
}
