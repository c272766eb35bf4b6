package repository

import "errors"

var ErrNotFound = errors.New("not found")

// 一意制約違反（同時実行で後から来た側）
var ErrDuplicate = errors.New("duplicate")
