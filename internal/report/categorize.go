package report

import "strings"

// Bucket is one of the seven fixed progress-report categories.
type Bucket string

const (
	BucketFabrication       Bucket = "fabrication"
	BucketWheelTyre         Bucket = "wheel_tyre"
	BucketDentPaint         Bucket = "dent_paint"
	BucketBatteryElectrical Bucket = "battery_electrical"
	BucketULDContainers     Bucket = "uld_containers"
	BucketMechanical        Bucket = "mechanical"
	BucketMiscellaneous     Bucket = "miscellaneous"
)

// Buckets in report display order.
var Buckets = []Bucket{
	BucketFabrication,
	BucketWheelTyre,
	BucketDentPaint,
	BucketBatteryElectrical,
	BucketULDContainers,
	BucketMechanical,
	BucketMiscellaneous,
}

var bucketLabels = map[Bucket]string{
	BucketFabrication:       "Fabrication",
	BucketWheelTyre:         "Wheel / Tyre",
	BucketDentPaint:         "Dent / Paint",
	BucketBatteryElectrical: "Battery / Electrical",
	BucketULDContainers:     "ULD / Containers",
	BucketMechanical:        "Mechanical",
	BucketMiscellaneous:     "Miscellaneous",
}

func (b Bucket) Label() string {
	return bucketLabels[b]
}

// exactMatches resolves a whole work-type string in one lookup. Checked
// before the substring rules so e.g. "wheel" never falls through to a
// different keyword list.
var exactMatches = map[string]Bucket{
	"fabrication": BucketFabrication,
	"welding":     BucketFabrication,
	"wheel":       BucketWheelTyre,
	"tyre":        BucketWheelTyre,
	"tire":        BucketWheelTyre,
	"dent":        BucketDentPaint,
	"paint":       BucketDentPaint,
	"painting":    BucketDentPaint,
	"battery":     BucketBatteryElectrical,
	"electrical":  BucketBatteryElectrical,
	"uld":         BucketULDContainers,
	"container":   BucketULDContainers,
	"mechanical":  BucketMechanical,
}

// keywordRules are evaluated in this fixed order; the first substring hit
// wins, so the mapping stays deterministic for mixed descriptions.
var keywordRules = []struct {
	bucket   Bucket
	keywords []string
}{
	{BucketFabrication, []string{"fabricat", "weld", "sheet metal"}},
	{BucketWheelTyre, []string{"wheel", "tyre", "tire"}},
	{BucketDentPaint, []string{"dent", "paint", "body work", "scratch"}},
	{BucketBatteryElectrical, []string{"battery", "electric", "wiring", "charg"}},
	{BucketULDContainers, []string{"uld", "container", "pallet", "dolly"}},
	{BucketMechanical, []string{"mechanic", "engine", "hydraul", "brake", "gearbox", "transmission"}},
}

// Categorize maps a free-text work type to exactly one report bucket:
// case-insensitive exact match first, then the keyword lists in order,
// falling back to miscellaneous. Total and deterministic.
func Categorize(workType string) Bucket {
	s := strings.ToLower(strings.TrimSpace(workType))
	if b, ok := exactMatches[s]; ok {
		return b
	}
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(s, kw) {
				return rule.bucket
			}
		}
	}
	return BucketMiscellaneous
}
