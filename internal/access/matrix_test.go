package access_test

import (
	"encoding/json"

	"github.com/frahmantamala/revenue-management/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var allLevels = []access.Level{access.LevelNone, access.LevelReadOnly, access.LevelReadWrite, access.LevelFull}

var _ = Describe("Matrix", func() {
	var matrix *access.Matrix

	BeforeEach(func() {
		matrix = access.DefaultMatrix()
	})

	It("grants SuperAdmin Full on every module", func() {
		for _, m := range access.Modules {
			Expect(matrix.HasModuleAccess(access.RoleSuperAdmin, m, access.LevelFull)).To(BeTrue(), string(m))
		}
	})

	It("keeps SuperAdmin's override even when the table says otherwise", func() {
		restricted, err := matrix.WithOverrides(map[string]map[string]string{
			"super_admin": {"settings": "none"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(restricted.HasModuleAccess(access.RoleSuperAdmin, access.ModuleSettings, access.LevelFull)).To(BeTrue())
	})

	It("is total: every known role has a level for every module", func() {
		table := matrix.Table()
		for _, role := range access.RolePriority {
			Expect(table).To(HaveKey(role))
			Expect(table[role]).To(HaveLen(len(access.Modules)))
		}
	})

	It("is monotonic in the required level for every role and module", func() {
		roles := append([]access.Role{access.RoleNone}, access.RolePriority...)
		for _, role := range roles {
			for _, m := range access.Modules {
				for i := 1; i < len(allLevels); i++ {
					if matrix.HasModuleAccess(role, m, allLevels[i]) {
						Expect(matrix.HasModuleAccess(role, m, allLevels[i-1])).To(BeTrue(),
							"%s on %s at %s", role, m, allLevels[i-1])
					}
				}
			}
		}
	})

	It("denies unknown roles and RoleNone everywhere", func() {
		for _, m := range access.Modules {
			Expect(matrix.HasModuleAccess(access.RoleNone, m, access.LevelNone)).To(BeFalse())
			Expect(matrix.HasModuleAccess(access.Role("operator"), m, access.LevelReadOnly)).To(BeFalse())
		}
	})

	DescribeTable("default table cells",
		func(role access.Role, module access.Module, expected access.Level) {
			Expect(matrix.Level(role, module)).To(Equal(expected))
		},
		Entry(nil, access.RoleAdmin, access.ModuleAdmin, access.LevelReadOnly),
		Entry(nil, access.RoleAdmin, access.ModuleSettings, access.LevelReadWrite),
		Entry(nil, access.RoleMiddleManager, access.ModuleDashboard, access.LevelReadWrite),
		Entry(nil, access.RoleMiddleManager, access.ModuleSettings, access.LevelNone),
		Entry(nil, access.RoleTeamMember, access.ModuleUserManagement, access.LevelNone),
		Entry(nil, access.RoleTeamMember, access.ModuleReports, access.LevelReadWrite),
		Entry(nil, access.RolePartner, access.ModuleReports, access.LevelReadOnly),
		Entry(nil, access.RoleClient, access.ModuleCalendar, access.LevelNone),
		Entry(nil, access.RoleClient, access.ModuleDashboard, access.LevelReadOnly),
	)

	It("defaults the required level to ReadOnly in CanRead", func() {
		Expect(matrix.CanRead(access.RoleClient, access.ModuleDashboard)).To(BeTrue())
		Expect(matrix.CanRead(access.RoleClient, access.ModuleSettings)).To(BeFalse())
	})

	Describe("Check", func() {
		It("reports what was required and granted", func() {
			d := matrix.Check(access.RolePartner, access.ModuleReports, access.LevelReadWrite)
			Expect(d.Allowed).To(BeFalse())
			Expect(d.Granted).To(Equal(access.LevelReadOnly))
			Expect(d.Required).To(Equal(access.LevelReadWrite))
		})

		It("renders the denial payload", func() {
			d := matrix.Check(access.RoleClient, access.ModuleAdmin, access.LevelReadOnly)
			body, err := json.Marshal(d.Denial())
			Expect(err).NotTo(HaveOccurred())

			var payload map[string]string
			Expect(json.Unmarshal(body, &payload)).To(Succeed())
			Expect(payload).To(HaveKey("error"))
			Expect(payload["user_role"]).To(Equal("client"))
			Expect(payload["required_module"]).To(Equal("admin"))
			Expect(payload["required_level"]).To(Equal("read_only"))
		})
	})

	Describe("WithOverrides", func() {
		It("replaces single cells without touching the original", func() {
			updated, err := matrix.WithOverrides(map[string]map[string]string{
				"partner": {"external_sync": "read_write"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Level(access.RolePartner, access.ModuleExternalSync)).To(Equal(access.LevelReadWrite))
			Expect(matrix.Level(access.RolePartner, access.ModuleExternalSync)).To(Equal(access.LevelNone))
		})

		It("rejects unknown names", func() {
			_, err := matrix.WithOverrides(map[string]map[string]string{"guest": {"dashboard": "full"}})
			Expect(err).To(HaveOccurred())

			_, err = matrix.WithOverrides(map[string]map[string]string{"partner": {"leave": "full"}})
			Expect(err).To(HaveOccurred())

			_, err = matrix.WithOverrides(map[string]map[string]string{"partner": {"dashboard": "owner"}})
			Expect(err).To(HaveOccurred())
		})
	})

	It("lists a role's row in module order", func() {
		row := matrix.Row(access.RoleClient)
		Expect(row).To(HaveLen(len(access.Modules)))
		Expect(row[0]).To(Equal(access.ModuleAccess{Module: access.ModuleDashboard, Level: access.LevelReadOnly}))
	})
})

var _ = Describe("Level", func() {
	It("parses configuration spellings", func() {
		for input, expected := range map[string]access.Level{
			"none":      access.LevelNone,
			"read-only": access.LevelReadOnly,
			"ReadWrite": access.LevelReadWrite,
			"FULL":      access.LevelFull,
			"2":         access.LevelReadWrite,
		} {
			lvl, err := access.ParseLevel(input)
			Expect(err).NotTo(HaveOccurred(), input)
			Expect(lvl).To(Equal(expected), input)
		}
	})

	It("round-trips through text encoding", func() {
		var lvl access.Level
		Expect(lvl.UnmarshalText([]byte("read_write"))).To(Succeed())
		Expect(lvl).To(Equal(access.LevelReadWrite))
		Expect(lvl.String()).To(Equal("read_write"))
	})
})
