package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	revenueDatamodel "github.com/frahmantamala/revenue-management/internal/core/datamodel/revenue"
	userDatamodel "github.com/frahmantamala/revenue-management/internal/core/datamodel/user"
	"github.com/frahmantamala/revenue-management/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "password"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with one user per role plus clients, projects and revenues for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		setupLogger(cfg)

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gdb, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if err := seedData(cmd.Context(), gdb, cfg.Security.BCryptCost, clearData); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		fmt.Println("Seeding complete. Every seeded user logs in with password:", seedPassword)
	},
}

type seedUser struct {
	Email     string
	Name      string
	Group     string
	Superuser bool
	Client    string
}

var seedGroups = []struct {
	Name string
	Desc string
}{
	{"super_admin", "Unrestricted access"},
	{"admin", "Full access to every module"},
	{"middle_manager", "Manages projects and sees their revenue"},
	{"team_member", "Works on projects and sees rounded revenue"},
	{"partner", "External partner with bucketed revenue"},
	{"client", "Client portal access to own projects"},
}

var seedClients = []string{"Acme Corp", "Globex"}

var seedUsers = []seedUser{
	{Email: "root@mail.com", Name: "Root", Superuser: true},
	{Email: "admin@mail.com", Name: "Ayu Admin", Group: "admin"},
	{Email: "manager@mail.com", Name: "Budi Manager", Group: "middle_manager"},
	{Email: "member@mail.com", Name: "Citra Member", Group: "team_member"},
	{Email: "partner@mail.com", Name: "Dewi Partner", Group: "partner"},
	{Email: "client@mail.com", Name: "Eko Client", Group: "client", Client: "Acme Corp"},
	{Email: "sales@mail.com", Name: "Fadhil Sales", Group: "team_member"},
}

// seedData inserts the sample dataset. Rows that already exist are kept.
func seedData(ctx context.Context, db *gorm.DB, cost int, clear bool) error {
	lg := logger.LoggerWrapper()
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clear {
			if err := clearSeedData(tx); err != nil {
				return err
			}
			lg.Info("cleared existing data")
		}

		groups := make(map[string]int64, len(seedGroups))
		for _, g := range seedGroups {
			group := userDatamodel.Group{Name: g.Name, Description: g.Desc}
			if err := tx.Where("name = ?", g.Name).FirstOrCreate(&group).Error; err != nil {
				return fmt.Errorf("seed group %s: %w", g.Name, err)
			}
			groups[g.Name] = group.ID
		}

		clients := make(map[string]int64, len(seedClients))
		for _, name := range seedClients {
			client := revenueDatamodel.Client{Name: name}
			if err := tx.Where("name = ?", name).FirstOrCreate(&client).Error; err != nil {
				return fmt.Errorf("seed client %s: %w", name, err)
			}
			clients[name] = client.ID
		}

		users := make(map[string]int64, len(seedUsers))
		for _, su := range seedUsers {
			u := userDatamodel.User{
				Email:        su.Email,
				Name:         su.Name,
				PasswordHash: string(hash),
				IsActive:     true,
				IsSuperuser:  su.Superuser,
			}
			if su.Client != "" {
				id := clients[su.Client]
				u.ClientProfileID = &id
			}
			if err := tx.Where("email = ?", su.Email).FirstOrCreate(&u).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", su.Email, err)
			}
			users[su.Email] = u.ID

			if su.Group == "" {
				continue
			}
			link := userDatamodel.UserGroup{UserID: u.ID, GroupID: groups[su.Group]}
			if err := tx.Where(&link).FirstOrCreate(&link).Error; err != nil {
				return fmt.Errorf("seed membership %s: %w", su.Email, err)
			}
		}

		projects, err := seedProjects(tx, clients, users)
		if err != nil {
			return err
		}
		return seedRevenues(tx, projects, users["sales@mail.com"])
	})
}

func seedProjects(tx *gorm.DB, clients, users map[string]int64) ([]int64, error) {
	manager := users["manager@mail.com"]
	specs := []struct {
		Name    string
		Client  string
		Manager *int64
		Members []string
	}{
		{Name: "Website Revamp", Client: "Acme Corp", Manager: &manager, Members: []string{"member@mail.com"}},
		{Name: "Mobile App", Client: "Globex", Manager: &manager},
		{Name: "Data Platform", Client: "Acme Corp", Members: []string{"partner@mail.com"}},
	}

	ids := make([]int64, 0, len(specs))
	for _, s := range specs {
		clientID := clients[s.Client]
		p := revenueDatamodel.Project{Name: s.Name, Status: "in_progress", ClientID: &clientID, ManagerID: s.Manager}
		if err := tx.Where("name = ?", s.Name).FirstOrCreate(&p).Error; err != nil {
			return nil, fmt.Errorf("seed project %s: %w", s.Name, err)
		}
		for _, email := range s.Members {
			m := revenueDatamodel.ProjectMember{ProjectID: p.ID, UserID: users[email]}
			if err := tx.Where(&m).FirstOrCreate(&m).Error; err != nil {
				return nil, fmt.Errorf("seed project member %s: %w", email, err)
			}
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func seedRevenues(tx *gorm.DB, projects []int64, salesID int64) error {
	var count int64
	if err := tx.Model(&revenueDatamodel.Revenue{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count revenues: %w", err)
	}
	if count > 0 {
		return nil
	}

	base := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	amounts := []int64{4500, 23000, 78000, 150000, 640000, 1250000}
	statuses := []string{"paid", "pending", "overdue", "partial", "paid", "cancelled"}

	rows := make([]revenueDatamodel.Revenue, 0, len(amounts))
	for i, amount := range amounts {
		invoice := base.AddDate(0, i, 0)
		due := invoice.AddDate(0, 0, 30)
		number := fmt.Sprintf("INV-2025-%03d", i+1)
		tax := amount / 10
		net := amount - tax
		r := revenueDatamodel.Revenue{
			ProjectID:     projects[i%len(projects)],
			SalesPersonID: &salesID,
			Amount:        amount,
			NetAmount:     &net,
			TaxAmount:     &tax,
			InvoiceNumber: &number,
			InvoiceDate:   &invoice,
			DueDate:       &due,
			PaymentStatus: statuses[i],
		}
		if statuses[i] == "paid" {
			paid := invoice.AddDate(0, 0, 20)
			r.PaymentDate = &paid
		}
		rows = append(rows, r)
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("seed revenues: %w", err)
	}
	return nil
}

func clearSeedData(tx *gorm.DB) error {
	models := []interface{}{
		&revenueDatamodel.Revenue{},
		&revenueDatamodel.ProjectMember{},
		&revenueDatamodel.Project{},
		&userDatamodel.UserGroup{},
		&userDatamodel.Group{},
		&userDatamodel.User{},
		&revenueDatamodel.Client{},
	}
	for _, m := range models {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return fmt.Errorf("clear %T: %w", m, err)
		}
	}
	return nil
}
