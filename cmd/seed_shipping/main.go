// seed_shipping genera el script SQL de zonas y tarifas de envío a partir de un YAML.
//
// Uso: go run ./cmd/seed_shipping [ruta/shipping.yaml] [--apply]
// Por defecto lee seeds/shipping.yaml. Rechaza el archivo si un país aparece en dos zonas
// o si algún código ISO 3166-1 alfa-2 es inválido.
// Escribe: migrations/002_seed_shipping.sql. Con --apply además reemplaza el catálogo en la base configurada.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	domainshipping "github.com/jhoicas/storefront-api/internal/domain/shipping"
	"github.com/jhoicas/storefront-api/internal/infrastructure/postgres"
	"github.com/jhoicas/storefront-api/pkg/config"
)

type seedFile struct {
	Zones []seedZone `yaml:"zones"`
}

type seedZone struct {
	Name      string     `yaml:"name"`
	Countries []string   `yaml:"countries"`
	Rates     []seedRate `yaml:"rates"`
}

type seedRate struct {
	Name      string `yaml:"name"`
	MinWeight int    `yaml:"min_weight_grams"`
	MaxWeight *int   `yaml:"max_weight_grams"`
	Price     string `yaml:"price"`
	MinDays   int    `yaml:"min_days"`
	MaxDays   int    `yaml:"max_days"`
	Tracked   bool   `yaml:"tracked"`
}

type zoneSeed struct {
	zone  entity.ShippingZone
	rates []entity.ShippingRate
}

func main() {
	path := "seeds/shipping.yaml"
	apply := false
	for _, arg := range os.Args[1:] {
		if arg == "--apply" {
			apply = true
			continue
		}
		path = arg
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir YAML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	seeds, err := parseSeed(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	zones := make([]entity.ShippingZone, 0, len(seeds))
	for _, s := range seeds {
		zones = append(zones, s.zone)
	}
	if report := domainshipping.ValidateZones(zones); !report.OK() {
		fmt.Fprintf(os.Stderr, "Archivo rechazado: %s\n", report.Error())
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "migrations", "002_seed_shipping.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()
	writeSQL(out, path, seeds)
	fmt.Printf("Generado %s: %d zonas\n", outPath, len(seeds))

	if apply {
		if err := applySeed(context.Background(), seeds); err != nil {
			fmt.Fprintf(os.Stderr, "Aplicar en base de datos: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Catálogo de envíos reemplazado")
	}
}

// parseSeed decodifica el YAML y normaliza códigos y precios. La posición es el orden en el archivo.
func parseSeed(r io.Reader) ([]zoneSeed, error) {
	var file seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decodificar YAML: %w", err)
	}
	if len(file.Zones) == 0 {
		return nil, fmt.Errorf("el archivo no define zonas")
	}

	seeds := make([]zoneSeed, 0, len(file.Zones))
	for zi, z := range file.Zones {
		if strings.TrimSpace(z.Name) == "" {
			return nil, fmt.Errorf("zona %d sin nombre", zi+1)
		}
		codes := make([]string, 0, len(z.Countries))
		for _, c := range z.Countries {
			codes = append(codes, strings.ToUpper(strings.TrimSpace(c)))
		}
		s := zoneSeed{zone: entity.ShippingZone{Name: z.Name, CountryCodes: codes, Position: zi}}
		for ri, r := range z.Rates {
			price, err := decimal.NewFromString(r.Price)
			if err != nil || price.IsNegative() {
				return nil, fmt.Errorf("zona %s, tarifa %q: precio inválido %q", z.Name, r.Name, r.Price)
			}
			if r.MinWeight < 0 || (r.MaxWeight != nil && *r.MaxWeight < r.MinWeight) {
				return nil, fmt.Errorf("zona %s, tarifa %q: rango de peso inválido", z.Name, r.Name)
			}
			if r.MinDays < 0 || r.MaxDays < r.MinDays {
				return nil, fmt.Errorf("zona %s, tarifa %q: rango de días inválido", z.Name, r.Name)
			}
			s.rates = append(s.rates, entity.ShippingRate{
				Name:           r.Name,
				MinWeightGrams: r.MinWeight,
				MaxWeightGrams: r.MaxWeight,
				Price:          price.Round(2),
				MinDays:        r.MinDays,
				MaxDays:        r.MaxDays,
				Tracked:        r.Tracked,
				Position:       ri,
			})
		}
		seeds = append(seeds, s)
	}
	return seeds, nil
}

func writeSQL(w io.Writer, source string, seeds []zoneSeed) {
	fmt.Fprintf(w, "-- Zonas y tarifas de envío\n-- Generado desde %s\n\n", filepath.Base(source))
	fmt.Fprintln(w, "BEGIN;")
	fmt.Fprintln(w, "DELETE FROM shipping_rates;")
	fmt.Fprintln(w, "DELETE FROM shipping_zones;")
	for _, s := range seeds {
		quoted := make([]string, 0, len(s.zone.CountryCodes))
		for _, c := range s.zone.CountryCodes {
			quoted = append(quoted, "'"+escapeSQL(c)+"'")
		}
		fmt.Fprintf(w, "\n-- %s\n", s.zone.Name)
		fmt.Fprintf(w, "INSERT INTO shipping_zones (name, country_codes, position) VALUES ('%s', ARRAY[%s]::text[], %d);\n",
			escapeSQL(s.zone.Name), strings.Join(quoted, ", "), s.zone.Position)
		for _, r := range s.rates {
			maxWeight := "NULL"
			if r.MaxWeightGrams != nil {
				maxWeight = fmt.Sprintf("%d", *r.MaxWeightGrams)
			}
			fmt.Fprintf(w, "INSERT INTO shipping_rates (zone_id, name, min_weight_grams, max_weight_grams, price, min_days, max_days, tracked, position)\n")
			fmt.Fprintf(w, "SELECT id, '%s', %d, %s, %s, %d, %d, %t, %d FROM shipping_zones WHERE name = '%s';\n",
				escapeSQL(r.Name), r.MinWeightGrams, maxWeight, r.Price.StringFixed(2),
				r.MinDays, r.MaxDays, r.Tracked, r.Position, escapeSQL(s.zone.Name))
		}
	}
	fmt.Fprintln(w, "\nCOMMIT;")
}

// applySeed reemplaza el catálogo en una sola transacción: si algo falla no queda a medias
// y se puede volver a correr con el mismo archivo.
func applySeed(ctx context.Context, seeds []zoneSeed) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := replaceCatalog(ctx, tx, postgres.NewShippingRepository(tx), seeds); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type catalogWriter interface {
	CreateZone(ctx context.Context, z *entity.ShippingZone) error
	CreateRate(ctx context.Context, r *entity.ShippingRate) error
}

// replaceCatalog borra tarifas y zonas existentes e inserta las del seed. db y repo deben
// compartir la transacción.
func replaceCatalog(ctx context.Context, db execer, repo catalogWriter, seeds []zoneSeed) error {
	for _, stmt := range []string{"DELETE FROM shipping_rates", "DELETE FROM shipping_zones"} {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	for _, s := range seeds {
		zone := s.zone
		if err := repo.CreateZone(ctx, &zone); err != nil {
			return fmt.Errorf("zona %s: %w", zone.Name, err)
		}
		for _, r := range s.rates {
			r.ZoneID = zone.ID
			if err := repo.CreateRate(ctx, &r); err != nil {
				return fmt.Errorf("zona %s, tarifa %s: %w", zone.Name, r.Name, err)
			}
		}
	}
	return nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
