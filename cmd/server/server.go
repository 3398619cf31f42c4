package main

import (
	"net/http"
	"os"
	"strconv"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/snake/server"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
}

func main() {
	cfg, err := server.LoadConfig(os.Getenv("SNAKE_SETTINGS"))
	if err != nil {
		log.Fatalln(err)
	}
	Server := Server{
		GameServer: server.NewGameServer(cfg),
	}
	if sessions := os.Getenv("SNAKE_MAX_SESSIONS"); sessions != "" {
		if Server.GameServer.MaxSessions, err = strconv.Atoi(sessions); err != nil {
			log.Fatalln(err)
		}
	}
	go Server.GameServer.Loop()
	Server.routes()
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("Defaulting to port %s", port)
	}
	log.Fatalln(http.ListenAndServe(":"+port, Server.router))
}
