package access_test

import (
	"github.com/frahmantamala/revenue-management/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type record struct {
	id        int64
	manager   int64
	members   []int64
	sales     int64
	client    int64
	reference string
}

func (r record) Ownership() access.Ownership {
	return access.Ownership{
		RecordID:      r.id,
		ManagerID:     r.manager,
		TeamMemberIDs: r.members,
		SalesPersonID: r.sales,
		ClientID:      r.client,
	}
}

func ids(records []record) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r.id)
	}
	return out
}

func user(id int64) *access.Identity {
	return &access.Identity{UserID: id, Authenticated: true}
}

var _ = Describe("FilterVisible", func() {
	var records []record

	BeforeEach(func() {
		records = []record{
			{id: 1, manager: 10, members: []int64{20, 21}, sales: 20, client: 100},
			{id: 2, manager: 11, members: []int64{22}, sales: 21, client: 101},
			{id: 3, manager: 10, members: nil, sales: 23, client: 100},
			{id: 4, manager: 12, members: []int64{10, 30}, sales: 0, client: 0},
		}
	})

	It("shows everything to SuperAdmin and Admin", func() {
		Expect(ids(access.FilterVisible(records, user(99), access.RoleSuperAdmin))).To(Equal([]int64{1, 2, 3, 4}))
		Expect(ids(access.FilterVisible(records, user(99), access.RoleAdmin))).To(Equal([]int64{1, 2, 3, 4}))
	})

	It("shows a MiddleManager projects they manage or belong to", func() {
		Expect(ids(access.FilterVisible(records, user(10), access.RoleMiddleManager))).To(Equal([]int64{1, 3, 4}))
	})

	It("includes a managed project even when the manager is not a team member", func() {
		visible := access.FilterVisible(records, user(11), access.RoleMiddleManager)
		Expect(ids(visible)).To(Equal([]int64{2}))
	})

	It("shows a TeamMember records they sold or whose team they are on", func() {
		Expect(ids(access.FilterVisible(records, user(21), access.RoleTeamMember))).To(Equal([]int64{1, 2}))
		Expect(ids(access.FilterVisible(records, user(23), access.RoleTeamMember))).To(Equal([]int64{3}))
	})

	It("shows a Partner only projects they are a member of", func() {
		Expect(ids(access.FilterVisible(records, user(30), access.RolePartner))).To(Equal([]int64{4}))
		Expect(ids(access.FilterVisible(records, user(10), access.RolePartner))).To(Equal([]int64{4}))
	})

	It("shows a Client only records of their client profile", func() {
		client := &access.Identity{UserID: 500, Authenticated: true, ClientProfileID: 100}
		Expect(ids(access.FilterVisible(records, client, access.RoleClient))).To(Equal([]int64{1, 3}))
	})

	It("returns nothing for a Client without a profile", func() {
		Expect(access.FilterVisible(records, user(500), access.RoleClient)).To(BeEmpty())
	})

	It("returns nothing for unknown roles and unauthenticated callers", func() {
		Expect(access.FilterVisible(records, user(10), access.Role("auditor"))).To(BeEmpty())
		Expect(access.FilterVisible(records, nil, access.RoleAdmin)).To(BeEmpty())
		Expect(access.FilterVisible(records, &access.Identity{UserID: 10}, access.RoleAdmin)).To(BeEmpty())
	})

	It("removes duplicate records, keeping the first", func() {
		dup := append([]record{}, records...)
		dup = append(dup, record{id: 1, manager: 10, reference: "duplicate"})

		visible := access.FilterVisible(dup, user(10), access.RoleMiddleManager)
		Expect(ids(visible)).To(Equal([]int64{1, 3, 4}))
		Expect(visible[0].reference).To(BeEmpty())
	})

	It("keeps records without an id instead of collapsing them", func() {
		unsaved := []record{
			{manager: 10, reference: "draft a"},
			{manager: 10, reference: "draft b"},
			{id: 1, manager: 10},
			{id: 1, manager: 10, reference: "duplicate"},
		}

		visible := access.FilterVisible(unsaved, user(10), access.RoleMiddleManager)
		Expect(visible).To(HaveLen(3))
		Expect(visible[0].reference).To(Equal("draft a"))
		Expect(visible[1].reference).To(Equal("draft b"))
		Expect(visible[2].reference).To(BeEmpty())
	})

	It("does not modify its input", func() {
		before := append([]record{}, records...)
		_ = access.FilterVisible(records, user(21), access.RoleTeamMember)
		Expect(records).To(Equal(before))
	})

	It("is idempotent", func() {
		for _, role := range access.RolePriority {
			once := access.FilterVisible(records, user(10), role)
			twice := access.FilterVisible(once, user(10), role)
			Expect(twice).To(Equal(once), string(role))
		}
	})
})

var _ = Describe("ScopeFor", func() {
	It("carries the caller's ids", func() {
		Expect(access.ScopeFor(user(5), access.RoleTeamMember)).To(Equal(access.Scope{Kind: access.ScopeSoldOrMember, UserID: 5}))

		client := &access.Identity{UserID: 5, Authenticated: true, ClientProfileID: 9}
		Expect(access.ScopeFor(client, access.RoleClient)).To(Equal(access.Scope{Kind: access.ScopeClient, ClientID: 9}))
	})

	It("is empty for RoleNone", func() {
		Expect(access.ScopeFor(user(5), access.RoleNone).IsEmpty()).To(BeTrue())
	})
})
