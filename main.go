package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	authpb "messaging-service/pb/auth"
	userpb "messaging-service/pb/user"

	"messaging-service/internal/db"
	grpcclient "messaging-service/internal/grpc"
	"messaging-service/internal/handlers"
	"messaging-service/internal/middleware"
	"messaging-service/internal/observability"
	"messaging-service/internal/rabbitmq"
	"messaging-service/internal/repositories"
	"messaging-service/internal/session"
	syncpkg "messaging-service/internal/sync"
	"messaging-service/internal/telemetry"
	"messaging-service/internal/tray"
	"messaging-service/internal/ws"
)

const serviceName = "messaging-service"

func main() {
	ctx := context.Background()

	shutdownTracing, err := telemetry.SetupTracing(ctx, serviceName, os.Getenv("OTLP_ENDPOINT"))
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	authAddr := getEnv("AUTH_GRPC_ADDR", "localhost:8084")
	userAddr := getEnv("USER_GRPC_ADDR", "localhost:8085")

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(observability.GRPCClientMetricsUnaryInterceptor()),
	}

	authConn, err := grpc.Dial(authAddr, dialOpts...)
	if err != nil {
		log.Fatalf("failed to connect to auth grpc: %v", err)
	}
	defer authConn.Close()

	userConn, err := grpc.Dial(userAddr, dialOpts...)
	if err != nil {
		log.Fatalf("failed to connect to user grpc: %v", err)
	}
	defer userConn.Close()

	authClient := grpcclient.NewAuthClient(authpb.NewAuthServiceClient(authConn))
	userClient := grpcclient.NewUserClient(userpb.NewUserInternalClient(userConn))

	conversationRepo := repositories.NewConversationRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	receiptRepo := repositories.NewReceiptRepo(database)

	amqpURL := os.Getenv("AMQP_URL")

	changePublisher := rabbitmq.NewPublisher(amqpURL, syncpkg.Exchange)
	defer changePublisher.Close()
	log.Printf("change publisher mode=%s", rabbitmq.PublisherMode(changePublisher))

	if amqpURL != "" {
		opsPublisher, err := observability.NewAMQPPublisher(amqpURL, getEnv("OPS_EXCHANGE", "ops.events"))
		if err != nil {
			log.Printf("ops event publisher disabled: %v", err)
		} else {
			observability.SetPublisher(opsPublisher)
			defer opsPublisher.Close()
		}
	}

	auditEmitter := telemetry.NewAuditEmitter(
		changePublisher,
		getEnv("AUDIT_ROUTING_KEY", "audit.messaging"),
		serviceName,
		getEnv("ENVIRONMENT", "development"),
	)

	trayStore, err := tray.NewFileStore(getEnv("TRAY_DIR", "./tray"))
	if err != nil {
		log.Fatalf("failed to set up tray storage: %v", err)
	}

	sessions := session.NewManager(session.Deps{
		ConversationRepo: conversationRepo,
		MessageRepo:      messageRepo,
		ReceiptRepo:      receiptRepo,
		Users:            userClient,
		TrayStore:        trayStore,
	})

	hub := ws.NewHub()
	reconciler := syncpkg.NewReconciler(sessions, conversationRepo, userClient, hub)

	// HTTP-only clients never hit the websocket teardown path, so their
	// sessions are reclaimed once they go quiet.
	idleTTL := time.Duration(getEnvInt("SESSION_IDLE_MINUTES", 30)) * time.Minute
	go func() {
		ticker := time.NewTicker(idleTTL / 2)
		defer ticker.Stop()
		for range ticker.C {
			if dropped := sessions.CloseIdle(idleTTL, hub.Connected); dropped > 0 {
				log.Printf("closed %d idle sessions", dropped)
			}
		}
	}()

	consumer, err := rabbitmq.NewConsumer(amqpURL, syncpkg.Exchange, getEnv("CHANGE_QUEUE", "messaging-service.changes"))
	if err != nil {
		log.Fatalf("failed to set up change consumer: %v", err)
	}
	if consumer != nil {
		defer consumer.Close()
		go func() {
			if err := consumer.Run(ctx, reconciler); err != nil {
				log.Printf("change consumer stopped: %v", err)
			}
		}()
	}

	conversationHandler := handlers.NewConversationHandler(sessions, changePublisher, auditEmitter)
	messageHandler := handlers.NewMessageHandler(sessions, changePublisher)
	unreadHandler := handlers.NewUnreadHandler(sessions, changePublisher)
	trayHandler := handlers.NewTrayHandler(sessions)
	sessionWS := ws.NewSessionWebSocketHandler(hub, sessions, authClient)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(authClient)

	router.GET("/conversations", authMiddleware, conversationHandler.List)
	router.POST("/conversations", authMiddleware, conversationHandler.Create)
	router.GET("/conversations/trash", authMiddleware, conversationHandler.Trash)
	router.POST("/conversations/bulk/archive", authMiddleware, conversationHandler.BulkArchive)
	router.POST("/conversations/bulk/delete", authMiddleware, conversationHandler.BulkDelete)
	router.POST("/conversations/:conversation_id/archive", authMiddleware, conversationHandler.Archive)
	router.POST("/conversations/:conversation_id/unarchive", authMiddleware, conversationHandler.Unarchive)
	router.POST("/conversations/:conversation_id/restore", authMiddleware, conversationHandler.Restore)
	router.DELETE("/conversations/:conversation_id", authMiddleware, conversationHandler.Delete)
	router.DELETE("/conversations/:conversation_id/purge", authMiddleware, conversationHandler.Purge)

	router.GET("/conversations/:conversation_id/messages", authMiddleware, messageHandler.List)
	router.POST("/conversations/:conversation_id/messages", authMiddleware, messageHandler.Send)

	router.POST("/conversations/:conversation_id/read", authMiddleware, unreadHandler.MarkRead)
	router.POST("/read-all", authMiddleware, unreadHandler.MarkAllRead)
	router.GET("/unread", authMiddleware, unreadHandler.Counts)

	router.GET("/tray", authMiddleware, trayHandler.List)
	router.POST("/tray/:conversation_id/open", authMiddleware, trayHandler.Open)
	router.DELETE("/tray/:conversation_id", authMiddleware, trayHandler.Close)
	router.POST("/tray/:conversation_id/minimize", authMiddleware, trayHandler.ToggleMinimize)
	router.POST("/tray/:conversation_id/title", authMiddleware, trayHandler.SetTitle)

	router.GET("/ws", sessionWS.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, auditEmitter, os.Getenv("DEBUG_ROUTES") == "true")

	port := getEnv("PORT", "8086")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
