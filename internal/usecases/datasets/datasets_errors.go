package datasets

import "errors"

var (
	// ErrFeedUnavailable carrega a mensagem exibida ao usuário quando o feed não pode ser carregado
	ErrFeedUnavailable = errors.New("Error loading data! Please try again.")
	ErrStoreNotFound   = errors.New("loja não encontrada no dataset")
)
