// @title Competition Scoring Engine API
// @version 1.0
// @description Backend API for judged-competition scoring, ranking and tiebreaker resolution

// @securityDefinitions.apikey AdminToken
// @in header
// @name x-admin-token

// @securityDefinitions.apikey JudgeToken
// @in header
// @name x-judge-token
package main

import (
	_ "github.com/KernyMC/Reinado2025-sub000/docs"

	"github.com/KernyMC/Reinado2025-sub000/api"
	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/spf13/viper"
)

func main() {
	logging.BootstrapLogger()

	// Load env
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logging.Log.Errorf("Failed to read config file: %v", err)
		panic("Failed to read config file: " + err.Error())
	}

	// Read config
	config := api.ReadConfig()

	// Start the service (inside the lambda)
	service := api.NewServer(config)
	service.Start()
}
