package cmd

import (
	"context"

	"github.com/frahmantamala/revenue-management/internal/access"
	revenueDatamodel "github.com/frahmantamala/revenue-management/internal/core/datamodel/revenue"
	userDatamodel "github.com/frahmantamala/revenue-management/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("seedData", func() {
	var db *gorm.DB

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(
			&revenueDatamodel.Client{},
			&userDatamodel.User{},
			&userDatamodel.Group{},
			&userDatamodel.UserGroup{},
			&revenueDatamodel.Project{},
			&revenueDatamodel.ProjectMember{},
			&revenueDatamodel.Revenue{},
		)).To(Succeed())
	})

	count := func(model interface{}) int64 {
		var n int64
		Expect(db.Model(model).Count(&n).Error).To(Succeed())
		return n
	}

	It("creates a group for every default role", func() {
		Expect(seedData(context.Background(), db, bcrypt.MinCost, false)).To(Succeed())

		var names []string
		Expect(db.Model(&userDatamodel.Group{}).Pluck("name", &names).Error).To(Succeed())
		for group := range access.DefaultGroupRoles() {
			Expect(names).To(ContainElement(group))
		}
	})

	It("is idempotent", func() {
		Expect(seedData(context.Background(), db, bcrypt.MinCost, false)).To(Succeed())
		Expect(seedData(context.Background(), db, bcrypt.MinCost, false)).To(Succeed())

		Expect(count(&userDatamodel.User{})).To(Equal(int64(len(seedUsers))))
		Expect(count(&revenueDatamodel.Revenue{})).To(Equal(int64(6)))
		Expect(count(&revenueDatamodel.Project{})).To(Equal(int64(3)))
	})

	It("links the client user to a client profile", func() {
		Expect(seedData(context.Background(), db, bcrypt.MinCost, false)).To(Succeed())

		var u userDatamodel.User
		Expect(db.Where("email = ?", "client@mail.com").First(&u).Error).To(Succeed())
		Expect(u.ClientProfileID).NotTo(BeNil())
		Expect(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(seedPassword))).To(Succeed())
	})

	It("clears and reseeds when asked", func() {
		Expect(seedData(context.Background(), db, bcrypt.MinCost, false)).To(Succeed())
		Expect(db.Create(&userDatamodel.User{Email: "extra@mail.com", Name: "Extra", PasswordHash: "x"}).Error).To(Succeed())

		Expect(seedData(context.Background(), db, bcrypt.MinCost, true)).To(Succeed())
		Expect(count(&userDatamodel.User{})).To(Equal(int64(len(seedUsers))))
	})
})

var _ = Describe("sampleEvent", func() {
	It("builds the known audit events", func() {
		for _, t := range []string{"access.denied", "revenue.exported"} {
			ev, err := sampleEvent(t)
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.EventType()).To(Equal(t))
		}
	})

	It("rejects unknown types", func() {
		_, err := sampleEvent("unknown.event")
		Expect(err).To(HaveOccurred())
	})

	It("treats admins as unmasked", func() {
		Expect(isUnmasked("admin")).To(BeTrue())
		Expect(isUnmasked("partner")).To(BeFalse())
	})
})
