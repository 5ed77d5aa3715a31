package api

import (
	"context"
	"fmt"
	"os"

	"github.com/KernyMC/Reinado2025-sub000/api/controllers"
	"github.com/KernyMC/Reinado2025-sub000/api/transport"
	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/KernyMC/Reinado2025-sub000/realtime"
	"github.com/KernyMC/Reinado2025-sub000/storage"
	"github.com/KernyMC/Reinado2025-sub000/storage/memory"
	"github.com/KernyMC/Reinado2025-sub000/tiebreak"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
)

type Server struct {
	config *Config
}

type storages struct {
	competitors storage.CompetitorStorage
	categories  storage.CategoryStorage
	judges      storage.JudgeStorage
	scores      storage.ScoreStorage
	sessions    storage.SessionStorage
	votes       storage.TiebreakerVoteStorage
	resolutions storage.ResolutionStorage
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	r := transport.NewRouter(gin.DebugMode)

	st := s.buildStorages()

	hub := realtime.NewHub()
	go hub.Run()
	r.GET("/ws/ranking", hub.ServeWS)

	tiebreakService := tiebreak.NewService(st.sessions, st.votes, st.judges, st.resolutions, tiebreak.Config{
		MinRating:   s.config.MinRating,
		MaxRating:   s.config.MaxRating,
		MaxScore:    s.config.MaxScore,
		BonusPoints: s.config.BonusPoints,
	})

	//Register controllers
	scoreController := controllers.NewScoreController(st.scores, st.competitors, st.categories, st.judges,
		hub, s.config.MinScore, s.config.MaxScore)
	scoreController.RegisterRoutes(r)
	rankingController := controllers.NewRankingController(st.scores, st.competitors,
		s.config.TieTopN, s.config.TiePrecision)
	rankingController.RegisterRoutes(r)
	tiebreakerController := controllers.NewTiebreakerController(tiebreakService, st.scores, st.competitors, st.judges, hub)
	tiebreakerController.RegisterRoutes(r)
	metaCompetitorController := controllers.NewCompetitorMetaController(st.competitors, st.scores)
	metaCompetitorController.RegisterRoutes(r)
	metaCategoryController := controllers.NewCategoryMetaController(st.categories)
	metaCategoryController.RegisterRoutes(r)
	metaJudgeController := controllers.NewJudgeMetaController(st.judges)
	metaJudgeController.RegisterRoutes(r)
	adminController := controllers.NewAdminController(st.scores, st.sessions, hub)
	adminController.RegisterRoutes(r)

	//Do not run lambda helper locally
	if os.Getenv("APP_ENV") == "local" {
		startLocal(r, s.config.Port)
	} else {
		startLambda(r)
	}
}

// buildStorages wires the configured storage driver. The memory driver
// exists for local runs and tests, everything else goes through DynamoDB.
func (s *Server) buildStorages() *storages {
	if s.config.Driver == "memory" {
		logging.Log.Info("Using in-memory storage driver")
		store := memory.NewStore()
		return &storages{
			competitors: store.Competitors(),
			categories:  store.Categories(),
			judges:      store.Judges(),
			scores:      store.Scores(),
			sessions:    store.Sessions(),
			votes:       store.TiebreakerVotes(),
			resolutions: store.Resolutions(),
		}
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logging.Log.Errorf("failed to load AWS config: %v", err)
		panic("failed to load AWS config")
	}

	dynamoClient := dynamodb.NewFromConfig(cfg)

	return &storages{
		competitors: &storage.DynamoCompetitorStorage{
			Client:    dynamoClient,
			TableName: s.config.TableNameCompetitors,
		},
		categories: &storage.DynamoCategoryStorage{
			Client:    dynamoClient,
			TableName: s.config.TableNameCategories,
		},
		judges: &storage.DynamoJudgeStorage{
			Client:    dynamoClient,
			TableName: s.config.TableNameJudges,
		},
		scores: &storage.DynamoScoreStorage{
			Client:    dynamoClient,
			TableName: s.config.TableNameScores,
		},
		sessions: &storage.DynamoSessionStorage{
			Client:    dynamoClient,
			TableName: s.config.TableNameSessions,
		},
		votes: &storage.DynamoTiebreakerVoteStorage{
			Client:    dynamoClient,
			TableName: s.config.TableNameVotes,
		},
		resolutions: &storage.DynamoResolutionStorage{
			Client:            dynamoClient,
			TableName:         s.config.TableNameResolutions,
			ScoresTableName:   s.config.TableNameScores,
			SessionsTableName: s.config.TableNameSessions,
		},
	}
}

// startLambda sets up for AWS Lambda
func startLambda(engine *gin.Engine) {
	ginLambda := ginadapter.NewV2(engine)

	handler := func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		logging.Log.Infof("Lambda handler triggered on path: %s", req.RawPath)
		return ginLambda.ProxyWithContext(ctx, req)
	}

	logging.Log.Info("Starting lambda")
	lambda.Start(handler)
}

// startLocal starts a normal HTTP server on the configured port
func startLocal(engine *gin.Engine, port int) {
	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", port))

	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
