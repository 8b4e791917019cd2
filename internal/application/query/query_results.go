package query

import "github.com/Arthur-Ayvazyan/rest-api/internal/application/common"

type PostQueryResult struct {
	Message string             `json:"message"`
	Post    *common.PostResult `json:"post"`
}

type PostListQueryResult struct {
	Message    string               `json:"message"`
	Posts      []*common.PostResult `json:"posts"`
	TotalItems int64                `json:"totalItems"`
}

type StatusQueryResult struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
