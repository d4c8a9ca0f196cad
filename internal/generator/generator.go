package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/dmesa/accounts-service/internal/domain"
	"github.com/dmesa/accounts-service/internal/service"
)

// Dataset contains the generated accounts.
type Dataset struct {
	Accounts []service.AccountInput `json:"accounts"`
}

// Generator produces synthetic account payloads that pass the service's
// validation rules, so a generated dataset seeds without rejects.
type Generator struct {
	cfg       Config
	rand      *rand.Rand
	fragments nameFragments
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.NumAccounts <= 0 {
		cfg.NumAccounts = DefaultConfig().NumAccounts
	}
	if cfg.MaxBalance <= cfg.MinBalance {
		cfg.MaxBalance = DefaultConfig().MaxBalance
	}
	if cfg.MinBalance < 0 {
		cfg.MinBalance = 0
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:       cfg,
		rand:      rand.New(rand.NewSource(cfg.Seed)),
		fragments: defaultNameFragments(),
	}
}

// Generate synthesises account inputs. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	accounts := make([]service.AccountInput, g.cfg.NumAccounts)

	for i := 0; i < g.cfg.NumAccounts; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}

		name := g.randomCustomerName()
		balance := g.randomBalance()

		accounts[i] = service.AccountInput{
			AccountNumber:  fmt.Sprintf("ACC-%08d", i+1),
			AccountType:    g.randomAccountType(),
			CustomerName:   name,
			DocumentType:   g.randomDocumentType(),
			DocumentNumber: fmt.Sprintf("%09d", g.rand.Intn(1000000000)),
			Phone:          g.randomPhone(),
			Email:          g.randomEmail(i + 1),
			Address:        g.randomAddress(),
			Balance:        &balance,
		}
	}

	return Dataset{Accounts: accounts}, nil
}

func (g *Generator) randomBalance() float64 {
	span := g.cfg.MaxBalance - g.cfg.MinBalance
	raw := g.cfg.MinBalance + g.rand.Float64()*span
	return math.Round(raw*100) / 100
}

func (g *Generator) randomCustomerName() string {
	return fmt.Sprintf("%s %s", g.fragments.first[g.rand.Intn(len(g.fragments.first))],
		g.fragments.last[g.rand.Intn(len(g.fragments.last))])
}

func (g *Generator) randomEmail(seq int) string {
	domainName := g.fragments.domains[g.rand.Intn(len(g.fragments.domains))]
	return fmt.Sprintf("%s.%s.%d@%s",
		g.fragments.first[g.rand.Intn(len(g.fragments.first))],
		g.fragments.last[g.rand.Intn(len(g.fragments.last))],
		seq, domainName)
}

func (g *Generator) randomPhone() string {
	return fmt.Sprintf("+57%03d%07d", g.rand.Intn(900)+100, g.rand.Intn(10000000))
}

func (g *Generator) randomAddress() string {
	return fmt.Sprintf("%d %s %s, %s",
		g.rand.Intn(9999)+1,
		g.fragments.streetNames[g.rand.Intn(len(g.fragments.streetNames))],
		g.fragments.streetSuffix[g.rand.Intn(len(g.fragments.streetSuffix))],
		g.fragments.cities[g.rand.Intn(len(g.fragments.cities))])
}

func (g *Generator) randomAccountType() string {
	types := []string{"SAVINGS", "CHECKING", "BUSINESS", "PAYROLL"}
	return types[g.rand.Intn(len(types))]
}

func (g *Generator) randomDocumentType() string {
	return string(domain.DocumentTypes[g.rand.Intn(len(domain.DocumentTypes))])
}

type nameFragments struct {
	first        []string
	last         []string
	domains      []string
	streetNames  []string
	streetSuffix []string
	cities       []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:        []string{"Jane", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara"},
		last:         []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "Lee"},
		domains:      []string{"example.com", "mail.com", "payments.net", "securepay.org"},
		streetNames:  []string{"Market", "Mission", "Broadway", "Fifth", "Sunset", "Park", "Cedar", "Oak", "Pine", "Ash"},
		streetSuffix: []string{"St", "Ave", "Blvd", "Ln", "Rd", "Way"},
		cities:       []string{"Bogota", "Medellin", "Cali", "Barranquilla", "Cartagena", "Bucaramanga"},
	}
}
