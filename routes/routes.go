package routes

import (
	"net/http"
	"wowzie/auth"
	"wowzie/booking"
	"wowzie/calendar"
	"wowzie/camps"
	"wowzie/convo"
	"wowzie/live"
	"wowzie/middleware"
	"wowzie/notify"
	"wowzie/pay"
	"wowzie/profile"
	"wowzie/ratelim"
	"wowzie/share"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/userpic/*filepath", http.Dir("static/userpic"))
	router.ServeFiles("/static/camppic/*filepath", http.Dir("static/camppic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))
}

func AddProfileRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/profile/:userid", profile.GetProfile)
	router.PUT("/api/profile", middleware.Authenticate(profile.EditProfile))
	router.POST("/api/profile/avatar", middleware.Authenticate(profile.EditProfilePic))
}

func AddCampRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/camps", camps.GetCamps)
	router.GET("/api/camps/:campid", camps.GetCamp)
	router.POST("/api/camps", middleware.Authenticate(camps.CreateCamp))
	router.PUT("/api/camps/:campid", middleware.Authenticate(camps.EditCamp))
	router.DELETE("/api/camps/:campid", middleware.Authenticate(camps.DeleteCamp))
	router.POST("/api/camps/:campid/photo", middleware.Authenticate(camps.UploadCampPhoto))
	router.GET("/api/camps/:campid/bookings", middleware.Authenticate(booking.GetCampBookings))
}

func AddBookingRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/bookings", rl.Limit(middleware.Authenticate(booking.CreateBooking)))
	router.GET("/api/bookings", middleware.Authenticate(booking.GetMyBookings))
	router.POST("/api/bookings/:bookingid/decide", middleware.Authenticate(booking.DecideBooking))
	router.POST("/api/bookings/:bookingid/cancel", middleware.Authenticate(booking.CancelBooking))
	router.GET("/api/bookings/:bookingid/qr", middleware.Authenticate(booking.BookingQR))
	router.GET("/api/bookings/:bookingid/receipt", middleware.Authenticate(booking.BookingReceipt))
}

func AddCalendarRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/calendar", middleware.Authenticate(calendar.GetCalendar))
	router.GET("/api/calendar/feed.ics", middleware.Authenticate(calendar.MyCalendarICS))
	router.GET("/api/calendar/shared/:token/feed.ics", middleware.Authenticate(calendar.SharedCalendarICS))

	router.POST("/api/calendar/shares", rl.Limit(middleware.Authenticate(share.CreateShare)))
	router.GET("/api/calendar/shares", middleware.Authenticate(share.ListShares))
	router.POST("/api/calendar/accept-share", middleware.Authenticate(share.AcceptShare))
	router.POST("/api/calendar/shares/:shareid/resend", rl.Limit(middleware.Authenticate(share.ResendShare)))
}

func AddConvoRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, hub *live.Hub) {
	router.POST("/api/conversations", middleware.Authenticate(convo.GetOrCreateConversation))
	router.GET("/api/conversations", middleware.Authenticate(convo.ListConversations))
	router.GET("/api/conversations/:convoid/messages", middleware.Authenticate(convo.GetMessages))
	router.POST("/api/conversations/:convoid/read", middleware.Authenticate(convo.MarkConversationRead))

	router.POST("/api/messages", rl.Limit(middleware.Authenticate(convo.SendMessage(hub))))
	router.POST("/api/messages/blast", rl.Limit(middleware.Authenticate(convo.SendBlastMessage(hub))))
}

func AddNotifyRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/notifications", middleware.Authenticate(notify.ListNotifications))
	router.POST("/api/notifications/read", middleware.Authenticate(notify.MarkRead))
}

func AddPayRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/pay/create-payment-intent", rl.Limit(middleware.Authenticate(pay.CreatePaymentIntent)))
	router.GET("/api/pay/payments", middleware.Authenticate(pay.ListMyPayments))
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/ws", live.WebSocketHandler(hub))
}

func RoutesWrapper(router *httprouter.Router, rl *ratelim.RateLimiter, hub *live.Hub) {
	AddAuthRoutes(router, rl)
	AddProfileRoutes(router, rl)
	AddCampRoutes(router, rl)
	AddBookingRoutes(router, rl)
	AddCalendarRoutes(router, rl)
	AddConvoRoutes(router, rl, hub)
	AddNotifyRoutes(router, rl)
	AddPayRoutes(router, rl)
	AddLiveRoutes(router, hub)
	AddStaticRoutes(router)
}
