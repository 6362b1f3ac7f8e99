package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/revenue-management/internal/transport/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IPRateLimiter", func() {
	It("allows the burst and then denies", func() {
		rl := middleware.NewIPRateLimiter(100, 3, time.Minute)
		for i := 0; i < 3; i++ {
			Expect(rl.Allow("127.0.0.1")).To(BeTrue())
		}
		Expect(rl.Allow("127.0.0.1")).To(BeFalse())
	})

	It("keeps a separate bucket per IP", func() {
		rl := middleware.NewIPRateLimiter(1, 1, time.Minute)
		Expect(rl.Allow("1.2.3.4")).To(BeTrue())
		Expect(rl.Allow("1.2.3.4")).To(BeFalse())
		Expect(rl.Allow("5.6.7.8")).To(BeTrue())
	})

	It("evicts idle limiters", func() {
		rl := middleware.NewIPRateLimiter(1, 1, time.Nanosecond)
		rl.Allow("1.2.3.4")
		time.Sleep(time.Millisecond)
		Expect(rl.Evict()).To(Equal(1))
	})

	It("sweeps on its own even with a sub-tick TTL", func() {
		rl := middleware.NewIPRateLimiter(1, 1, time.Nanosecond)
		rl.Allow("1.2.3.4")

		stop := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer GinkgoRecover()
			defer close(done)
			rl.Run(stop)
		}()

		time.Sleep(20 * time.Millisecond)
		close(stop)
		Eventually(done).Should(BeClosed())
		Expect(rl.Evict()).To(BeZero())
	})

	It("answers 429 with Retry-After once the burst is spent", func() {
		handler := middleware.RateLimit(middleware.NewIPRateLimiter(0.5, 2, time.Minute))(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
			req.RemoteAddr = "10.0.0.1:5555"
			handler.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
			if rec.Code == http.StatusTooManyRequests {
				Expect(rec.Header().Get("Retry-After")).To(Equal("2"))
			}
		}
		Expect(codes).To(Equal([]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}))
	})
})
