package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/baratonrides/gobackend/internal/config"
	"github.com/baratonrides/gobackend/internal/handlers"
	"github.com/baratonrides/gobackend/internal/mpesa"
	"github.com/baratonrides/gobackend/internal/services"
	"github.com/baratonrides/gobackend/internal/store"
)

func main() {
	// Load .env
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env: %s", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, disconnect, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := disconnect(shutdownCtx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Select the gateway strategy at construction time.
	var gateway mpesa.Client
	if cfg.MpesaMock {
		log.Println("M-Pesa mock mode enabled, no live gateway calls will be made")
		gateway = mpesa.NewMockClient()
	} else {
		gateway = mpesa.NewDarajaClient(mpesa.DarajaOptions{
			Environment:    cfg.MpesaEnvironment,
			ConsumerKey:    cfg.MpesaConsumerKey,
			ConsumerSecret: cfg.MpesaConsumerSecret,
			Shortcode:      cfg.MpesaShortcode,
			Passkey:        cfg.MpesaPasskey,
			CallbackURL:    cfg.MpesaCallbackURL,
		})
	}

	// Initialize services and handlers
	auth := handlers.NewAuth(cfg.JWTSecret)

	userService := services.NewUserService(db)
	userHandler := handlers.NewUserHandler(userService, auth)

	paymentService := services.NewPaymentService(db, gateway)
	paymentHandler := handlers.NewPaymentHandler(paymentService, auth)
	callbackHandler := handlers.NewCallbackHandler(paymentService)

	rideService := services.NewRideService(db)
	rideHandler := handlers.NewRideHandler(rideService, auth)

	orderService := services.NewFoodOrderService(db)
	orderHandler := handlers.NewFoodOrderHandler(orderService, auth)

	deliveryService := services.NewPackageDeliveryService(db)
	deliveryHandler := handlers.NewPackageDeliveryHandler(deliveryService, auth)

	errandService := services.NewErrandService(db)
	errandHandler := handlers.NewErrandHandler(errandService, auth)

	notificationService := services.NewNotificationService(db)
	notificationHandler := handlers.NewNotificationHandler(notificationService, userService, auth)

	// Set up router
	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "HEAD")

	router.HandleFunc("/api/register", userHandler.Register).Methods("POST")
	router.HandleFunc("/api/login", userHandler.Login).Methods("POST")
	router.HandleFunc("/api/profile", userHandler.GetProfile).Methods("GET")
	router.HandleFunc("/api/profile", userHandler.UpdateProfile).Methods("PATCH")

	router.HandleFunc("/api/payments/initiate", paymentHandler.InitiatePayment).Methods("POST")
	router.HandleFunc("/api/payments/{checkoutRequestID}/status", paymentHandler.CheckStatus).Methods("GET")
	router.HandleFunc("/api/payments", paymentHandler.ListTransactions).Methods("GET")
	router.HandleFunc("/api/mpesa/callback", callbackHandler.STKCallback).Methods("POST")

	router.HandleFunc("/api/rides", rideHandler.BookRide).Methods("POST")
	router.HandleFunc("/api/rides", rideHandler.ListRides).Methods("GET")
	router.HandleFunc("/api/rides/{rideID}", rideHandler.GetRide).Methods("GET")
	router.HandleFunc("/api/rides/{rideID}/cancel", rideHandler.CancelRide).Methods("POST")

	router.HandleFunc("/api/orders", orderHandler.PlaceOrder).Methods("POST")
	router.HandleFunc("/api/orders", orderHandler.ListOrders).Methods("GET")
	router.HandleFunc("/api/orders/{orderID}", orderHandler.GetOrder).Methods("GET")

	router.HandleFunc("/api/deliveries", deliveryHandler.SendPackage).Methods("POST")
	router.HandleFunc("/api/deliveries", deliveryHandler.ListDeliveries).Methods("GET")
	router.HandleFunc("/api/deliveries/{deliveryID}", deliveryHandler.GetDelivery).Methods("GET")

	router.HandleFunc("/api/errands", errandHandler.RequestErrand).Methods("POST")
	router.HandleFunc("/api/errands", errandHandler.ListErrands).Methods("GET")
	router.HandleFunc("/api/errands/{errandID}", errandHandler.GetErrand).Methods("GET")

	router.HandleFunc("/api/notifications", notificationHandler.CreateNotification).Methods("POST")
	router.HandleFunc("/api/notifications", notificationHandler.ListNotifications).Methods("GET")
	router.HandleFunc("/api/notifications/unread-count", notificationHandler.UnreadCount).Methods("GET")
	router.HandleFunc("/api/notifications/{notificationID}/read", notificationHandler.MarkRead).Methods("POST")

	// Start server
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(server.ListenAndServe())
}
