package revenue_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"

	"github.com/frahmantamala/revenue-management/internal"
	"github.com/frahmantamala/revenue-management/internal/access"
	"github.com/frahmantamala/revenue-management/internal/core/events"
	"github.com/frahmantamala/revenue-management/internal/revenue"
	"github.com/frahmantamala/revenue-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/text/language"
)

var _ = Describe("Service", func() {
	var (
		ctx       context.Context
		repo      *mockRepository
		publisher *recordingPublisher
		service   *revenue.Service
		page      revenue.ListQuery
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockRepository{records: fixtures()}
		publisher = &recordingPublisher{}
		service = revenue.NewService(repo, access.NewDefaultEngine(), publisher, 2, logger.Discard())
		page = revenue.ListQuery{Limit: revenue.DefaultLimit}
	})

	Describe("List", func() {
		DescribeTable("returns only the caller's records",
			func(id *access.Identity, expected []int64) {
				resp, err := service.List(ctx, id, page)
				Expect(err).NotTo(HaveOccurred())
				Expect(ids(resp.Revenues)).To(Equal(expected))
				Expect(resp.Total).To(Equal(int64(len(expected))))
			},
			Entry("admin sees everything", identity(1, "admin"), []int64{3, 2, 1}),
			Entry("manager sees managed projects", identity(10, "middle_manager"), []int64{3, 1}),
			Entry("team member sees sold and joined", identity(20, "team_member"), []int64{2, 1}),
			Entry("partner sees joined projects", identity(40, "partner"), []int64{1}),
			Entry("client sees own projects", clientIdentity(90, 500), []int64{3, 1}),
			Entry("client without profile sees nothing", identity(91, "client"), []int64{}),
			Entry("anonymous sees nothing", (*access.Identity)(nil), []int64{}),
		)

		It("masks amounts for the caller's role", func() {
			resp, err := service.List(ctx, identity(20, "team_member"), page)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Role).To(Equal(access.RoleTeamMember))
			Expect(resp.Revenues[0].Amount.String()).To(Equal("5,500,000**"))
			Expect(resp.Revenues[1].Amount.String()).To(Equal("1,234,000**"))
			Expect(resp.Revenues[1].NetAmount.String()).To(Equal(access.Redacted))
			Expect(resp.Revenues[1].IsMasked).To(BeTrue())
		})

		It("uses the request locale for labels", func() {
			english := internal.ContextWithLocale(ctx, language.English)
			resp, err := service.List(english, identity(40, "partner"), page)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Revenues[0].Amount.String()).To(Equal("1M-5M"))

			resp, err = service.List(ctx, identity(40, "partner"), page)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Revenues[0].Amount.String()).To(Equal("100만원~500만원"))
		})

		It("drops rows the repository should not have returned", func() {
			repo.leak = true
			resp, err := service.List(ctx, identity(40, "partner"), page)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(resp.Revenues)).To(Equal([]int64{1}))
		})

		It("wraps repository failures", func() {
			repo.err = errDatabase
			_, err := service.List(ctx, identity(1, "admin"), page)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(err).To(MatchError(errDatabase))
		})
	})

	Describe("Get", func() {
		It("returns a visible record masked", func() {
			view, err := service.Get(ctx, clientIdentity(90, 500), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Amount.String()).To(Equal("프로젝트 진행 중"))
			Expect(view.InvoiceNumber.String()).To(Equal(access.Redacted))
		})

		It("reports records outside the scope as not found", func() {
			_, err := service.Get(ctx, identity(40, "partner"), 2)
			Expect(err).To(Equal(internal.ErrRevenueNotFound))
		})

		It("still refuses when the repository ignores the scope", func() {
			repo.leak = true
			_, err := service.Get(ctx, identity(40, "partner"), 3)
			Expect(err).To(Equal(internal.ErrRevenueNotFound))
		})

		It("returns unmasked data to admins", func() {
			view, err := service.Get(ctx, identity(1, "admin"), 1)
			Expect(err).NotTo(HaveOccurred())
			amount, ok := view.Amount.Int()
			Expect(ok).To(BeTrue())
			Expect(amount).To(Equal(int64(1_234_567)))
			Expect(view.IsMasked).To(BeFalse())
		})
	})

	Describe("Export", func() {
		It("writes masked CSV and publishes an export event", func() {
			var buf bytes.Buffer
			rows, err := service.Export(ctx, identity(40, "partner"), page, &buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(1))

			records, err := csv.NewReader(&buf).ReadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0][0]).To(Equal("id"))
			Expect(records[1][0]).To(Equal("1"))
			Expect(records[1][5]).To(Equal("100만원~500만원"))
			Expect(buf.String()).NotTo(ContainSubstring("1234567"))

			Expect(publisher.events).To(HaveLen(1))
			exported, ok := publisher.events[0].(*events.RevenueExportedEvent)
			Expect(ok).To(BeTrue())
			Expect(exported.Rows).To(Equal(1))
			Expect(exported.Masked).To(BeTrue())
			Expect(exported.Role).To(Equal("partner"))
		})

		It("refuses exports over the limit without writing", func() {
			var buf bytes.Buffer
			_, err := service.Export(ctx, identity(1, "admin"), page, &buf)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeExportLimitExceeded))
			Expect(buf.Len()).To(BeZero())
			Expect(publisher.events).To(BeEmpty())
		})

		It("ignores paging", func() {
			var buf bytes.Buffer
			rows, err := service.Export(ctx, identity(10, "middle_manager"), revenue.ListQuery{Limit: 1, Offset: 1}, &buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(2))
		})
	})

	Describe("Summary", func() {
		It("totals visible revenues per status", func() {
			resp, err := service.Summary(ctx, identity(1, "admin"), page)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Count).To(Equal(int64(3)))
			total, ok := resp.Total.Int()
			Expect(ok).To(BeTrue())
			Expect(total).To(Equal(int64(77_000_000 + 5_500_000 + 1_234_567)))
			Expect(resp.ByStatus).To(HaveLen(3))
			Expect(resp.IsMasked).To(BeFalse())
		})

		It("masks totals with the caller's amount rule", func() {
			resp, err := service.Summary(ctx, clientIdentity(90, 500), page)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Count).To(Equal(int64(2)))
			Expect(resp.Total.String()).To(Equal("프로젝트 진행 중"))
			Expect(resp.IsMasked).To(BeTrue())

			resp, err = service.Summary(ctx, identity(10, "middle_manager"), page)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Total.String()).To(Equal("78,234,500**"))
		})
	})
})
