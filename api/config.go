package api

import (
	"strconv"
	"sync"

	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/KernyMC/Reinado2025-sub000/scoring"
	"github.com/spf13/viper"
)

type Config struct {
	StorageConfig
	ServerConfig
	EngineConfig
}

type StorageConfig struct {
	Driver               string
	TableNameCompetitors string
	TableNameCategories  string
	TableNameJudges      string
	TableNameScores      string
	TableNameSessions    string
	TableNameVotes       string
	TableNameResolutions string
}

type ServerConfig struct {
	Port int
}

// EngineConfig carries the competition rules left open to configuration:
// score and supplementary vote ranges, tie detection defaults and the
// bonus-per-position schedule.
type EngineConfig struct {
	MinScore     float64
	MaxScore     float64
	MinRating    float64
	MaxRating    float64
	TieTopN      int
	TiePrecision int
	BonusPoints  scoring.BonusSchedule
}

var settingsOnce sync.Once

func ReadConfig() *Config {

	var conf = &Config{
		StorageConfig: StorageConfig{
			Driver:               getStringOrDefault("storage.driver", "dynamo"),
			TableNameCompetitors: viper.GetString("storage.TableNameCompetitors"),
			TableNameCategories:  viper.GetString("storage.TableNameCategories"),
			TableNameJudges:      viper.GetString("storage.TableNameJudges"),
			TableNameScores:      viper.GetString("storage.TableNameScores"),
			TableNameSessions:    viper.GetString("storage.TableNameSessions"),
			TableNameVotes:       viper.GetString("storage.TableNameVotes"),
			TableNameResolutions: viper.GetString("storage.TableNameResolutions"),
		},
		ServerConfig: ServerConfig{
			Port: viper.GetInt("server.port"),
		},
		EngineConfig: EngineConfig{
			MinScore:     getFloatOrDefault("engine.minScore", 0),
			MaxScore:     getFloatOrDefault("engine.maxScore", scoring.MaxScore),
			MinRating:    getFloatOrDefault("tiebreaker.minRating", 1),
			MaxRating:    getFloatOrDefault("tiebreaker.maxRating", 10),
			TieTopN:      getIntOrDefault("engine.tieTopN", 3),
			TiePrecision: getIntOrDefault("engine.tiePrecision", 3),
			BonusPoints:  readBonusSchedule(),
		},
	}

	settingsOnce.Do(func() {
		logging.Log.Print("Reading settings!")
	})

	return conf
}

func readBonusSchedule() scoring.BonusSchedule {
	schedule := scoring.BonusSchedule{1: 2, 2: 1.5, 3: 1}
	if viper.IsSet("tiebreaker.bonusPoints") {
		schedule = scoring.BonusSchedule{}
		for position := range viper.GetStringMap("tiebreaker.bonusPoints") {
			p, err := strconv.Atoi(position)
			if err != nil {
				logging.Log.Fatalf("invalid bonus schedule position '%s'", position)
			}
			schedule[p] = viper.GetFloat64("tiebreaker.bonusPoints." + position)
		}
	}

	if err := schedule.Validate(); err != nil {
		logging.Log.Fatalf("invalid bonus schedule: %v", err)
	}
	return schedule
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getFloatOrDefault(name string, def float64) float64 {
	if viper.IsSet(name) {
		v := viper.GetFloat64(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getStringOrDefault(name string, def string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}
