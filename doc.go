// Package todo_quick_service implementa um serviço multi-tenant de lista de
// tarefas: usuários autenticados criam, listam, atualizam, removem, buscam e
// paginam itens pessoais, com upload opcional de imagem via URL pré-assinada.
//
// Visão Geral:
// O módulo é organizado em camadas, cada uma adicionando apenas a própria
// responsabilidade — handlers nunca tocam o store; o serviço nunca formata
// respostas de transporte:
// 1. transport: handlers HTTP (gorilla/mux) e Lambda (API Gateway) sobre o
//    mesmo serviço, único ponto de captura de erros.
// 2. todos: regras de negócio — identidade, defaults, escopo por usuário e
//    orquestração de store + anexos.
// 3. todostore: camada de dados sobre DynamoDB, com paginação por cursor
//    opaco e busca por substring via índice secundário.
// 4. attachments: emissão de URLs de upload pré-assinadas no S3.
//
// Sub-Pacotes de Apoio:
//
// 1. dyndb:
//   - Abstração de persistência (Store[T]) sobre o AWS SDK v2.
//   - Escrita condicional, SET parcial e QueryBuilder com paginação segura.
//
// 2. envloader:
//   - Carregamento de configurações via tags "env" e "envDefault".
//
// 3. auth, logger, metrics:
//   - Identidade verificada upstream, zerolog e métricas statsd.
package todo_quick_service
