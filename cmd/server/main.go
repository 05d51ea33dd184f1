// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"context"
	"fmt"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/raywall/todo-quick-service/attachments"
	"github.com/raywall/todo-quick-service/config"
	"github.com/raywall/todo-quick-service/dyndb"
	"github.com/raywall/todo-quick-service/logger"
	"github.com/raywall/todo-quick-service/metrics"
	"github.com/raywall/todo-quick-service/models"
	"github.com/raywall/todo-quick-service/todos"
	"github.com/raywall/todo-quick-service/todostore"
	"github.com/raywall/todo-quick-service/transport"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}

	base := logger.Configure(cfg.Logging)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		base.Fatal().Err(err).Msg("aws config failed")
	}

	// Dependências explícitas, construídas uma vez no start e injetadas
	// nos handlers — nada de singletons de escopo de módulo.
	store := dyndb.New[models.TodoItem](
		dynamodb.NewFromConfig(awsCfg),
		todostore.TableConfig(cfg.TodosTable),
	)
	repo := todostore.NewTodoRepository(store, todostore.Options{
		CreatedAtIndex: cfg.CreatedAtIndex,
		SearchIndex:    cfg.SearchIndex,
	})

	issuer := attachments.NewIssuer(
		s3.NewPresignClient(s3.NewFromConfig(awsCfg)),
		cfg.AttachmentBucket,
		cfg.SignedURLTTL,
	)

	svc := todos.NewService(repo, issuer)

	var provider metrics.Provider = metrics.Noop{}
	if cfg.MetricsAddr != "" {
		dd, err := metrics.NewDatadogProvider(cfg.MetricsAddr)
		if err != nil {
			base.Warn().Err(err).Msg("metrics disabled: statsd agent unreachable")
		} else {
			provider = dd
		}
	}

	router := transport.NewRouter(
		transport.NewHandler(svc),
		transport.NewMiddleware(base, provider),
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	base.Info().Str("addr", addr).Msg("todo service listening")
	if err := http.ListenAndServe(addr, router); err != nil {
		base.Fatal().Err(err).Msg("server stopped")
	}
}
