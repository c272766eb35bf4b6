package model

// トークンの持ち主の種別
type PrincipalRole string

const (
	PrincipalTable      PrincipalRole = "table"
	PrincipalStoreAdmin PrincipalRole = "store_admin"
	PrincipalSuperAdmin PrincipalRole = "super_admin"
)

// JWTのclaimsに入れる値。
// tableはTableID/SessionID/StoreID、store_adminはAdminID/StoreID、super_adminはAdminIDだけ持つ。
type Principal struct {
	Role      PrincipalRole
	AdminID   int64
	TableID   int64
	SessionID int64
	StoreID   string
}
