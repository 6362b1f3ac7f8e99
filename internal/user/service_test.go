package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/revenue-management/internal"
	"github.com/frahmantamala/revenue-management/internal/access"
	"github.com/frahmantamala/revenue-management/internal/auth"
	"github.com/frahmantamala/revenue-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockRepository struct {
	users  map[int64]*user.User
	groups map[int64][]string
	err    error
}

func (m *mockRepository) GetByID(_ context.Context, id int64) (*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockRepository) GetGroups(_ context.Context, id int64) ([]string, error) {
	return m.groups[id], nil
}

var _ = Describe("Service", func() {
	var (
		repo    *mockRepository
		service *user.Service
	)

	BeforeEach(func() {
		profile := int64(500)
		repo = &mockRepository{
			users: map[int64]*user.User{
				1: {ID: 1, Email: "root@example.com", IsSuperuser: true, IsActive: true},
				2: {ID: 2, Email: "pat@example.com", IsActive: true},
				3: {ID: 3, Email: "acme@example.com", IsActive: true, ClientProfileID: &profile},
			},
			groups: map[int64][]string{
				2: {"client", "partner"},
				3: {"client"},
			},
		}
		service = user.NewService(repo, access.NewDefaultEngine())
	})

	Describe("GetProfile", func() {
		It("resolves superusers to super_admin", func() {
			p, err := service.GetProfile(context.Background(), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Role).To(Equal(access.RoleSuperAdmin))
			Expect(p.Modules).To(HaveLen(len(access.Modules)))
			for _, m := range p.Modules {
				Expect(m.Level).To(Equal(access.LevelFull))
			}
		})

		It("picks the most privileged group", func() {
			p, err := service.GetProfile(context.Background(), 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Role).To(Equal(access.RolePartner))
			Expect(p.User.Groups).To(Equal([]string{"client", "partner"}))
		})

		It("returns a not found AppError for unknown users", func() {
			_, err := service.GetProfile(context.Background(), 99)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		It("wraps repository failures", func() {
			repo.err = errors.New("connection reset")
			_, err := service.GetProfile(context.Background(), 1)
			Expect(err).To(MatchError(ContainSubstring("connection reset")))
		})
	})

	Describe("Matrix", func() {
		It("lists every role in priority order with every module", func() {
			m := service.Matrix()
			Expect(m.Modules).To(Equal(access.Modules))
			Expect(m.Roles).To(HaveLen(len(access.RolePriority)))
			Expect(m.Roles[0].Role).To(Equal(access.RoleSuperAdmin))
			client := m.Roles[len(m.Roles)-1]
			Expect(client.Role).To(Equal(access.RoleClient))
			Expect(client.Modules[0]).To(Equal(access.ModuleAccess{Module: access.ModuleDashboard, Level: access.LevelReadOnly}))
		})
	})
})

var _ = Describe("Handler", func() {
	var handler *user.Handler

	BeforeEach(func() {
		repo := &mockRepository{
			users:  map[int64]*user.User{7: {ID: 7, Email: "mm@example.com", IsActive: true}},
			groups: map[int64][]string{7: {"middle_manager"}},
		}
		handler = user.NewHandler(user.NewService(repo, access.NewDefaultEngine()))
	})

	It("returns the caller's profile", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req = req.WithContext(auth.ContextWithUser(req.Context(), &auth.User{ID: 7}))
		rec := httptest.NewRecorder()
		handler.GetCurrentUser(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		var body struct {
			Role    string `json:"role"`
			Modules []struct {
				Module string `json:"module"`
				Level  string `json:"level"`
			} `json:"modules"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Role).To(Equal("middle_manager"))
		Expect(body.Modules[0].Level).To(Equal("read_write"))
	})

	It("maps a missing user to 404", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req = req.WithContext(auth.ContextWithUser(req.Context(), &auth.User{ID: 8}))
		rec := httptest.NewRecorder()
		handler.GetCurrentUser(rec, req)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("rejects anonymous requests", func() {
		rec := httptest.NewRecorder()
		handler.GetCurrentUser(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("serves the matrix", func() {
		rec := httptest.NewRecorder()
		handler.GetAccessMatrix(rec, httptest.NewRequest(http.MethodGet, "/api/v1/access/matrix", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"role":"super_admin"`))
	})
})
