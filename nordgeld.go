/*
Copyright 2025 Nordgeld Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package nordgeld

import (
	"embed"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nordgeld/nordgeld/config"
	"github.com/nordgeld/nordgeld/database"
	redis_db "github.com/nordgeld/nordgeld/internal/redis-db"
)

// Nordgeld represents the main struct for the Nordgeld application.
type Nordgeld struct {
	redis      redis.UniversalClient
	datasource database.IDataSource
}

//go:embed sql/*.sql
var SQLFiles embed.FS

// NewNordgeld initializes a new instance of Nordgeld with the provided database datasource.
// It fetches the configuration and initializes the Redis client used for settlement locks.
func NewNordgeld(db database.IDataSource) (*Nordgeld, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient(fmt.Sprintf("redis://%s", configuration.Redis.Dns))
	if err != nil {
		return nil, err
	}
	newNordgeld := &Nordgeld{datasource: db, redis: redisClient.Client()}
	return newNordgeld, nil
}
