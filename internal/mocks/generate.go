package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name GameDataProvider --dir ../usecase --output usecase --outpkg usecasemock --filename game_data_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SheetAppender --dir ../usecase --output usecase --outpkg usecasemock --filename sheet_appender_mock.go
