package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	openai "github.com/sashabaranov/go-openai"

	"coastwatch/alert"
	"coastwatch/batch"
	"coastwatch/classifier"
	"coastwatch/cronjobs"
	"coastwatch/detection"
	"coastwatch/gazetteer"
	"coastwatch/resolve"
	"coastwatch/review"
	"coastwatch/routes"
	"coastwatch/store"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	// Print and check env
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey != "" {
		fmt.Println("OPENAI_API_KEY loaded")
	} else {
		log.Println("OPENAI_API_KEY not set, classification will run on the keyword fallback")
	}

	// Pick the persistence backend. Without Firestore credentials the
	// service runs fully in memory, which is enough for local work.
	var st store.Store
	if os.Getenv("FIREBASE_CREDENTIALS") != "" {
		firestoreClient, err := store.InitFirestore()
		if err != nil {
			log.Fatalf("Failed to initialize Firestore: %v", err)
		}
		defer store.CloseFirestore()
		st = store.NewFirestoreStore(firestoreClient)
	} else {
		log.Println("FIREBASE_CREDENTIALS not set, using in-memory store")
		st = store.NewMemoryStore()
	}

	cl := classifier.New(openai.NewClient(apiKey))
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		cl.Model = model
	}

	clock := clockwork.NewRealClock()
	resolver := resolve.New(gazetteer.New(), resolve.IndiaRegion)
	aggregator := detection.New(detection.ConfigFromEnv(), clock)
	workflow := review.New(st, alert.NewDispatcher(), clock)
	queue := batch.NewQueue()
	orchestrator := batch.NewOrchestrator(cl, resolver, aggregator, workflow, st, clock)

	// Initialize cron jobs
	cronjobs.InitCronJobs(orchestrator, queue)

	r := routes.SetupRouter(orchestrator, queue, workflow, st)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
