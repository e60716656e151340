// Package generator produces the synthetic order dataset the dashboard runs on.
package generator

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"order-analytics/internal/domain"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

const (
	DefaultOrdersPerRegion = 25
	DefaultIDPrefix        = "KL"

	idSuffixLen  = 8
	idAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	historyDays  = 90
	maxEtaDays   = 30
	notesPercent = 30
)

// Config tunes generation. Regions without locale data and repeated regions are dropped, and when
// none remain every region is used.
type Config struct {
	Seed            uint64
	OrdersPerRegion int
	IDPrefix        string
	Regions         []domain.Region
}

func (c Config) withDefaults() Config {
	if c.OrdersPerRegion <= 0 {
		c.OrdersPerRegion = DefaultOrdersPerRegion
	}
	if c.IDPrefix == "" {
		c.IDPrefix = DefaultIDPrefix
	}
	c.Regions = knownRegions(c.Regions)
	if len(c.Regions) == 0 {
		c.Regions = domain.Regions
	}
	return c
}

func knownRegions(regions []domain.Region) []domain.Region {
	out := make([]domain.Region, 0, len(regions))
	for _, r := range regions {
		if _, ok := regionProfiles[r]; !ok || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Generator builds schema-valid orders from a seeded random source. Two generators with the same
// seed and clock produce identical datasets.
type Generator struct {
	cfg   Config
	clock domain.Clock
	rng   *rand.Rand
	faker *gofakeit.Faker
	seen  map[string]struct{}
}

func New(cfg Config, clock domain.Clock) *Generator {
	cfg = cfg.withDefaults()
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Generator{
		cfg:   cfg,
		clock: clock,
		rng:   rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		faker: gofakeit.New(cfg.Seed),
		seen:  make(map[string]struct{}),
	}
}

// Generate returns regions × orders-per-region orders sorted newest first.
func (g *Generator) Generate() []domain.Order {
	now := g.clock.Now()
	orders := make([]domain.Order, 0, len(g.cfg.Regions)*g.cfg.OrdersPerRegion)

	for _, region := range g.cfg.Regions {
		for i := 0; i < g.cfg.OrdersPerRegion; i++ {
			orders = append(orders, g.order(region, now))
		}
	}

	slices.SortStableFunc(orders, func(a, b domain.Order) int {
		return cmp.Compare(b.DateTime.UnixNano(), a.DateTime.UnixNano())
	})
	return orders
}

func (g *Generator) order(region domain.Region, now time.Time) domain.Order {
	profile := regionProfiles[region]
	category := pick(g.rng, domain.ProductCategories)
	item := pick(g.rng, catalog[category])
	quantity := 1 + g.rng.IntN(5)
	basePrice := 500 + g.rng.IntN(7501)

	placed := now.Add(-randDuration(g.rng, historyDays*24*time.Hour))
	eta := startOfUTCDay(placed).AddDate(0, 0, 1+g.rng.IntN(maxEtaDays))
	lastUpdate := placed.Add(randDuration(g.rng, now.Sub(placed)))

	notes := ""
	if g.rng.IntN(100) < notesPercent {
		notes = pick(g.rng, orderNotes)
	}

	return domain.Order{
		ID:                     g.nextID(region),
		DateTime:               placed,
		Region:                 region,
		ProductSKU:             item.SKU,
		ProductName:            item.Name,
		ProductCategory:        category,
		Quantity:               quantity,
		OrderTotal:             decimal.NewFromInt(int64(basePrice * quantity)),
		Currency:               region.Currency(),
		CustomerName:           g.faker.Name(),
		CustomerEmail:          strings.ToLower(g.faker.Email()),
		DeliveryAddress:        g.faker.Street(),
		City:                   pick(g.rng, profile.Cities),
		Country:                pick(g.rng, profile.Countries),
		Status:                 pick(g.rng, domain.OrderStatuses),
		PaymentMethod:          pick(g.rng, domain.PaymentMethods),
		DeliveryOption:         pick(g.rng, domain.DeliveryOptions),
		DeliveryETA:            eta,
		LastStatusUpdate:       lastUpdate,
		ProductConfiguration:   g.configuration(category),
		WarrantyStatus:         pick(g.rng, warrantyStates),
		CustomerServiceContact: g.faker.Phone(),
		FeedbackReceived:       g.rng.IntN(2) == 1,
		Notes:                  notes,
	}
}

func (g *Generator) configuration(category domain.ProductCategory) map[string]any {
	cfg := map[string]any{
		"color":    pick(g.rng, colors),
		"material": pick(g.rng, materials),
	}

	switch category {
	case domain.CategorySofa:
		cfg["configuration"] = pick(g.rng, sofaLayouts)
		cfg["dimensions"] = fmt.Sprintf("%dcm x %dcm", 180+g.rng.IntN(141), 90+g.rng.IntN(31))
		cfg["cushionFirmness"] = pick(g.rng, cushionFirmness)
		cfg["armStyle"] = pick(g.rng, armStyles)
	case domain.CategoryBed:
		cfg["size"] = pick(g.rng, bedSizes)
		cfg["headboardStyle"] = pick(g.rng, headboards)
		cfg["storage"] = g.rng.IntN(2) == 1
	}
	return cfg
}

// nextID draws suffixes until it finds one unused by this generator.
func (g *Generator) nextID(region domain.Region) string {
	for {
		var b strings.Builder
		b.WriteString(g.cfg.IDPrefix)
		b.WriteByte('-')
		b.WriteString(string(region))
		b.WriteByte('-')
		for i := 0; i < idSuffixLen; i++ {
			b.WriteByte(idAlphabet[g.rng.IntN(len(idAlphabet))])
		}

		id := b.String()
		if _, dup := g.seen[id]; !dup {
			g.seen[id] = struct{}{}
			return id
		}
	}
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

func randDuration(rng *rand.Rand, limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	return time.Duration(rng.Int64N(int64(limit)))
}

func startOfUTCDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
