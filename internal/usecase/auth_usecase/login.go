package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"tableorder/internal/domain/model"
	"tableorder/internal/repository"
	"tableorder/internal/usecase"
)

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(p model.Principal, now time.Time) (token string, expiresAt time.Time, err error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type TableLoginInput struct {
	StoreID     string `json:"store_id"`
	TableNumber string `json:"table_number"`
	Password    string `json:"password"`
}

type AdminLoginInput struct {
	StoreID  string `json:"store_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type SuperAdminLoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// token 形（JwtAccessToken相当）
type JwtAccessToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type TableLoginOutput struct {
	Token     JwtAccessToken `json:"token"`
	TableID   int64          `json:"table_id"`
	SessionID int64          `json:"session_id"`
	StoreID   string         `json:"store_id"`
}

type AdminLoginOutput struct {
	Token JwtAccessToken `json:"token"`
	Admin model.Admin    `json:"admin"`
}

type LoginUsecase struct {
	tx       repository.TransactionManager
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
	clock    Clock
}

func NewLoginUsecase(
	tx repository.TransactionManager,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		tx:       tx,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

// テーブルログイン。
// activeセッションがあればそれを返し、なければ作る（何度ログインしても同じセッション）。
func (u *LoginUsecase) TableLogin(ctx context.Context, in TableLoginInput) (TableLoginOutput, error) {
	storeID := strings.TrimSpace(in.StoreID)
	number := strings.TrimSpace(in.TableNumber)
	if storeID == "" || number == "" || in.Password == "" {
		return TableLoginOutput{}, usecase.ErrInvalidInput
	}

	var table model.Table
	err := u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		var err error
		table, err = r.Tables().FindByStoreAndNumber(ctx, storeID, number)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return TableLoginOutput{}, usecase.ErrInvalidCredentials
	}
	if err != nil {
		return TableLoginOutput{}, usecase.ErrInternal
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, table.PasswordHash); !ok {
		return TableLoginOutput{}, usecase.ErrInvalidCredentials
	}

	session, err := u.acquireSession(ctx, table.ID)
	if err != nil {
		return TableLoginOutput{}, err
	}

	now := u.clock.Now()
	tok, err := u.issue(model.Principal{
		Role:      model.PrincipalTable,
		TableID:   table.ID,
		SessionID: session.ID,
		StoreID:   table.StoreID,
	}, now)
	if err != nil {
		return TableLoginOutput{}, err
	}

	return TableLoginOutput{
		Token:     tok,
		TableID:   table.ID,
		SessionID: session.ID,
		StoreID:   table.StoreID,
	}, nil
}

// テーブル行をロックしてactiveセッションを取得 or 作成。
// 一意制約違反（同時に作られた）ならtxをやり直して読み直す。
func (u *LoginUsecase) acquireSession(ctx context.Context, tableID int64) (model.TableSession, error) {
	var session model.TableSession

	for attempt := 0; attempt < 2; attempt++ {
		err := u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
			if _, err := r.Tables().FindByIDForUpdate(ctx, tableID); err != nil {
				return err
			}

			s, err := r.Sessions().FindActiveByTableID(ctx, tableID)
			if err == nil {
				session = s
				return nil
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}

			session, err = r.Sessions().Create(ctx, model.TableSession{
				TableID:   tableID,
				StartedAt: u.clock.Now(),
				IsActive:  true,
			})
			return err
		})
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return model.TableSession{}, usecase.ErrInternal
		}
		return session, nil
	}
	return model.TableSession{}, usecase.ErrInternal
}

// 店舗管理者ログイン（有効なstore_adminで店舗が一致すること）
func (u *LoginUsecase) AdminLogin(ctx context.Context, in AdminLoginInput) (AdminLoginOutput, error) {
	storeID := strings.TrimSpace(in.StoreID)
	if storeID == "" {
		return AdminLoginOutput{}, usecase.ErrInvalidInput
	}

	a, err := u.authenticateAdmin(ctx, in.Username, in.Password)
	if err != nil {
		return AdminLoginOutput{}, err
	}
	if a.Role != model.AdminRoleStore || a.StoreID == nil || *a.StoreID != storeID {
		return AdminLoginOutput{}, usecase.ErrInvalidCredentials
	}

	tok, err := u.issue(model.Principal{
		Role:    model.PrincipalStoreAdmin,
		AdminID: a.ID,
		StoreID: *a.StoreID,
	}, u.clock.Now())
	if err != nil {
		return AdminLoginOutput{}, err
	}
	return AdminLoginOutput{Token: tok, Admin: a}, nil
}

func (u *LoginUsecase) SuperAdminLogin(ctx context.Context, in SuperAdminLoginInput) (AdminLoginOutput, error) {
	a, err := u.authenticateAdmin(ctx, in.Username, in.Password)
	if err != nil {
		return AdminLoginOutput{}, err
	}
	if a.Role != model.AdminRoleSuper {
		return AdminLoginOutput{}, usecase.ErrInvalidCredentials
	}

	tok, err := u.issue(model.Principal{
		Role:    model.PrincipalSuperAdmin,
		AdminID: a.ID,
	}, u.clock.Now())
	if err != nil {
		return AdminLoginOutput{}, err
	}
	return AdminLoginOutput{Token: tok, Admin: a}, nil
}

func (u *LoginUsecase) authenticateAdmin(ctx context.Context, username, password string) (model.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.Admin{}, usecase.ErrInvalidInput
	}

	var a model.Admin
	err := u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		var err error
		a, err = r.Admins().FindByUsername(ctx, username)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return model.Admin{}, usecase.ErrInvalidCredentials
	}
	if err != nil {
		return model.Admin{}, usecase.ErrInternal
	}

	//パスワード照合
	if ok := u.verifier.Verify(password, a.PasswordHash); !ok {
		return model.Admin{}, usecase.ErrInvalidCredentials
	}

	//停止中はログイン不可
	if !a.IsActive {
		return model.Admin{}, usecase.ErrAdminInactive
	}
	return a, nil
}

func (u *LoginUsecase) issue(p model.Principal, now time.Time) (JwtAccessToken, error) {
	token, exp, err := u.issuer.Issue(p, now)
	if err != nil {
		return JwtAccessToken{}, usecase.ErrInternal
	}
	return JwtAccessToken{
		AccessToken: token,
		ExpiresIn:   int(exp.Sub(now).Seconds()),
		ExpiresAt:   exp,
	}, nil
}
