package access_test

import (
	"github.com/frahmantamala/revenue-management/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Resolver", func() {
	var resolver *access.Resolver

	BeforeEach(func() {
		resolver = access.DefaultResolver()
	})

	It("returns RoleNone for a nil identity", func() {
		Expect(resolver.Resolve(nil)).To(Equal(access.RoleNone))
	})

	It("returns RoleNone for an unauthenticated identity even with groups", func() {
		id := &access.Identity{UserID: 1, Groups: []string{"admin"}}
		Expect(resolver.Resolve(id)).To(Equal(access.RoleNone))
	})

	It("resolves superusers to SuperAdmin regardless of groups", func() {
		id := &access.Identity{UserID: 1, Authenticated: true, IsSuperuser: true, Groups: []string{"client"}}
		Expect(resolver.Resolve(id)).To(Equal(access.RoleSuperAdmin))
	})

	DescribeTable("single group membership",
		func(group string, expected access.Role) {
			id := &access.Identity{UserID: 7, Authenticated: true, Groups: []string{group}}
			Expect(resolver.Resolve(id)).To(Equal(expected))
		},
		Entry("super_admin", "super_admin", access.RoleSuperAdmin),
		Entry("admin", "admin", access.RoleAdmin),
		Entry("middle_manager", "middle_manager", access.RoleMiddleManager),
		Entry("team_member", "team_member", access.RoleTeamMember),
		Entry("partner", "partner", access.RolePartner),
		Entry("client", "client", access.RoleClient),
	)

	It("picks the most privileged role when several groups match", func() {
		id := &access.Identity{UserID: 7, Authenticated: true, Groups: []string{"client", "partner", "middle_manager"}}
		Expect(resolver.Resolve(id)).To(Equal(access.RoleMiddleManager))
	})

	It("falls back to TeamMember for authenticated users without a known group", func() {
		id := &access.Identity{UserID: 7, Authenticated: true, Groups: []string{"marketing"}}
		Expect(resolver.Resolve(id)).To(Equal(access.RoleTeamMember))
	})

	Describe("ResolverFromConfig", func() {
		It("uses custom group names", func() {
			r, err := access.ResolverFromConfig(map[string]string{"영업관리자": "MiddleManager"}, "")
			Expect(err).NotTo(HaveOccurred())

			id := &access.Identity{UserID: 3, Authenticated: true, Groups: []string{"영업관리자"}}
			Expect(r.Resolve(id)).To(Equal(access.RoleMiddleManager))
		})

		DescribeTable("matches stored group names regardless of case and spacing",
			func(config map[string]string, groups []string, want access.Role) {
				r, err := access.ResolverFromConfig(config, "")
				Expect(err).NotTo(HaveOccurred())

				id := &access.Identity{UserID: 3, Authenticated: true, Groups: groups}
				Expect(r.Resolve(id)).To(Equal(want))
			},
			Entry("lowercased config key, mixed-case group row",
				map[string]string{"sales managers": "middle_manager"}, []string{"Sales Managers"}, access.RoleMiddleManager),
			Entry("mixed-case config key, lowercase group row",
				map[string]string{"Sales Managers": "middle_manager"}, []string{"sales managers"}, access.RoleMiddleManager),
			Entry("surrounding whitespace on the group row",
				map[string]string{"finance": "admin"}, []string{"  Finance \t"}, access.RoleAdmin),
			Entry("partner group resolves to Partner, not the fallback",
				map[string]string{"partners": "partner"}, []string{"Partners"}, access.RolePartner),
			Entry("client group resolves to Client, not the fallback",
				map[string]string{"customers": "client"}, []string{"CUSTOMERS"}, access.RoleClient),
		)

		It("matches default group names case-insensitively", func() {
			id := &access.Identity{UserID: 3, Authenticated: true, Groups: []string{"Partner"}}
			Expect(access.DefaultResolver().Resolve(id)).To(Equal(access.RolePartner))
		})

		It("honours a configured fallback role", func() {
			r, err := access.ResolverFromConfig(nil, "client")
			Expect(err).NotTo(HaveOccurred())

			id := &access.Identity{UserID: 3, Authenticated: true}
			Expect(r.Resolve(id)).To(Equal(access.RoleClient))
		})

		It("rejects unknown role names", func() {
			_, err := access.ResolverFromConfig(map[string]string{"ops": "operator"}, "")
			Expect(err).To(HaveOccurred())

			_, err = access.ResolverFromConfig(nil, "operator")
			Expect(err).To(HaveOccurred())
		})
	})
})
