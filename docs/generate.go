package docs

//go:generate swag init --dir ../ --generalInfo internal/interfaces/http/handler.go --output . --outputTypes go --parseInternal
