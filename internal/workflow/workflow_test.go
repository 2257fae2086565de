package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/arturkryukov/docverify/web-module/internal/domain/model"
	"github.com/arturkryukov/docverify/web-module/internal/verifyclient"
)

// fakeAPI — поддельный клиент API с учётом вызовов.
type fakeAPI struct {
	mu            sync.Mutex
	loginCalls    int
	registerCalls int
	uploadCalls   int
	verifyCalls   int
	pendingCalls  int
	decisionCalls int
	calls         []string

	loginErr    error
	registerErr error
	uploadErr   error
	verifyErr   error
	pendingErr  error
	decisionErr error

	pendingDocs []verifyclient.PendingDocument
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*model.Identity, error) {
	f.record("login")
	f.loginCalls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &model.Identity{UserID: 1, Name: "A", Email: email, Role: "user"}, nil
}

func (f *fakeAPI) Register(ctx context.Context, name, email, password string) (*verifyclient.RegisterAck, error) {
	f.record("register")
	f.registerCalls++
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &verifyclient.RegisterAck{UserID: 1, Email: email}, nil
}

func (f *fakeAPI) Upload(ctx context.Context, userID int, docType, filename string, data []byte) (*verifyclient.UploadResult, error) {
	f.record("upload")
	f.uploadCalls++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &verifyclient.UploadResult{}, nil
}

func (f *fakeAPI) VerifyByFingerprint(ctx context.Context, fingerprint string) (*verifyclient.VerificationReport, error) {
	f.record("verify:" + fingerprint)
	f.verifyCalls++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &verifyclient.VerificationReport{Verified: true}, nil
}

func (f *fakeAPI) ListPendingDocuments(ctx context.Context) ([]verifyclient.PendingDocument, error) {
	f.record("pending")
	f.pendingCalls++
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	return f.pendingDocs, nil
}

func (f *fakeAPI) SubmitReviewDecision(ctx context.Context, decision model.ReviewDecision) (*verifyclient.DecisionAck, error) {
	f.record("decision")
	f.decisionCalls++
	if f.decisionErr != nil {
		return nil, f.decisionErr
	}
	// После решения документ покидает очередь
	f.pendingDocs = nil
	return &verifyclient.DecisionAck{DocID: decision.DocID, Status: decision.Status}, nil
}

// TestAuth_RegisterThenLogin проверяет порядок: login выполняется строго
// после успешной регистрации, в одной попытке.
func TestAuth_RegisterThenLogin(t *testing.T) {
	api := &fakeAPI{}
	auth := NewAuth(api, testLogger())

	snap, err := auth.RunRegister(context.Background(), "A", "a@b.com", "x")
	if err != nil {
		t.Fatalf("RunRegister: %v", err)
	}
	if snap.State != StateSucceeded || snap.Result == nil || snap.Result.UserID != 1 {
		t.Errorf("После регистрации: %+v", snap)
	}
	if len(api.calls) != 2 || api.calls[0] != "register" || api.calls[1] != "login" {
		t.Errorf("Порядок вызовов: %v", api.calls)
	}
}

// TestAuth_RegisterFailSkipsLogin проверяет, что при отказе регистрации
// login не вызывается вовсе.
func TestAuth_RegisterFailSkipsLogin(t *testing.T) {
	api := &fakeAPI{registerErr: &verifyclient.Error{Code: verifyclient.CodeConflict, Message: "Email already exists"}}
	auth := NewAuth(api, testLogger())

	snap, err := auth.RunRegister(context.Background(), "A", "taken@b.com", "x")
	if err != nil {
		t.Fatalf("RunRegister: %v", err)
	}
	if snap.State != StateFailed || !verifyclient.IsCode(snap.Err, verifyclient.CodeConflict) {
		t.Errorf("После отказа регистрации: %+v", snap)
	}
	if api.loginCalls != 0 {
		t.Errorf("Login вызван %d раз после отказа регистрации", api.loginCalls)
	}
}

// TestAuth_RegisteredButLoginFailed проверяет частичный отказ:
// учётная запись создана, но вход не удался.
func TestAuth_RegisteredButLoginFailed(t *testing.T) {
	api := &fakeAPI{loginErr: &verifyclient.Error{Code: verifyclient.CodeUnavailable, Message: "down"}}
	auth := NewAuth(api, testLogger())

	snap, err := auth.RunRegister(context.Background(), "A", "a@b.com", "x")
	if err != nil {
		t.Fatalf("RunRegister: %v", err)
	}
	if snap.State != StateFailed || !errors.Is(snap.Err, ErrRegisteredLoginFailed) {
		t.Errorf("Ожидался ErrRegisteredLoginFailed: %+v", snap)
	}
	if api.registerCalls != 1 || api.loginCalls != 1 {
		t.Errorf("Вызовы: register=%d login=%d", api.registerCalls, api.loginCalls)
	}
}

// TestUpload_EmptySelection проверяет, что пустой выбор файла
// отклоняется без запроса к API.
func TestUpload_EmptySelection(t *testing.T) {
	api := &fakeAPI{}
	upload := NewUpload(api, testLogger())

	if err := upload.Submit(context.Background(), 1, "passport", "", nil); !errors.Is(err, ErrNoFile) {
		t.Fatalf("Ожидался ErrNoFile, получено: %v", err)
	}
	if err := upload.Submit(context.Background(), 1, "passport", "a.png", nil); !errors.Is(err, ErrNoFile) {
		t.Fatalf("Пустое содержимое: ожидался ErrNoFile, получено: %v", err)
	}
	if api.uploadCalls != 0 {
		t.Errorf("Upload вызван %d раз", api.uploadCalls)
	}

	// Непустой файл проходит
	snap, err := upload.Run(context.Background(), 1, "passport", "a.png", []byte{1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if snap.State != StateSucceeded || api.uploadCalls != 1 {
		t.Errorf("После загрузки: %+v, вызовов %d", snap, api.uploadCalls)
	}
}

// TestVerify_BlankFingerprint проверяет отклонение пустого fingerprint
// и обрезку пробелов.
func TestVerify_BlankFingerprint(t *testing.T) {
	api := &fakeAPI{}
	verify := NewVerify(api, testLogger())

	if err := verify.Submit(context.Background(), "   "); !errors.Is(err, ErrBlankFingerprint) {
		t.Fatalf("Ожидался ErrBlankFingerprint, получено: %v", err)
	}
	if api.verifyCalls != 0 {
		t.Errorf("Verify вызван %d раз", api.verifyCalls)
	}

	snap, err := verify.Run(context.Background(), "  cafebabe  ")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if snap.State != StateSucceeded {
		t.Errorf("После проверки: %+v", snap)
	}
	if len(api.calls) != 1 || api.calls[0] != "verify:cafebabe" {
		t.Errorf("Fingerprint не обрезан: %v", api.calls)
	}
}

// TestVerify_NotFoundIsDistinct проверяет, что «не найден» отличим
// от сетевого сбоя по коду.
func TestVerify_NotFoundIsDistinct(t *testing.T) {
	api := &fakeAPI{verifyErr: &verifyclient.Error{Code: verifyclient.CodeNotFound, Message: "Document not found in blockchain"}}
	verify := NewVerify(api, testLogger())

	snap, err := verify.Run(context.Background(), "deadbeef")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if snap.State != StateFailed {
		t.Fatalf("Состояние: %+v", snap)
	}
	if !verifyclient.IsCode(snap.Err, verifyclient.CodeNotFound) {
		t.Errorf("Код отказа: %v", snap.Err)
	}
	if verifyclient.IsCode(snap.Err, verifyclient.CodeUnavailable) {
		t.Error("NOT_FOUND неотличим от сетевого сбоя")
	}
}

// TestAdminReview_DecideReloadsPending проверяет, что после решения
// очередь перечитывается с сервера, а не правится локально.
func TestAdminReview_DecideReloadsPending(t *testing.T) {
	api := &fakeAPI{pendingDocs: []verifyclient.PendingDocument{{DocID: 7, DocName: "c.png", UserID: 3}}}
	review := NewAdminReview(api, testLogger())

	snap, err := review.RunLoadPending(context.Background())
	if err != nil {
		t.Fatalf("RunLoadPending: %v", err)
	}
	if len(snap.Result) != 1 {
		t.Fatalf("Очередь: %+v", snap.Result)
	}

	decision := model.ReviewDecision{DocID: 7, AdminID: 2, Status: model.StatusVerified, Remarks: "ok"}
	outcome, err := review.RunDecision(context.Background(), decision)
	if err != nil {
		t.Fatalf("RunDecision: %v", err)
	}
	if outcome.State != StateSucceeded || outcome.Result == nil {
		t.Fatalf("После решения: %+v", outcome)
	}
	if outcome.Result.Ack.DocID != 7 {
		t.Errorf("Ack: %+v", outcome.Result.Ack)
	}
	if len(outcome.Result.Pending) != 0 {
		t.Errorf("Очередь не перечитана: %+v", outcome.Result.Pending)
	}
	// decision, затем pending — строго в этом порядке
	last := api.calls[len(api.calls)-2:]
	if last[0] != "decision" || last[1] != "pending" {
		t.Errorf("Порядок вызовов: %v", api.calls)
	}
}

// TestAdminReview_InvalidStatus проверяет отклонение недопустимого
// статуса решения без запроса к API.
func TestAdminReview_InvalidStatus(t *testing.T) {
	api := &fakeAPI{}
	review := NewAdminReview(api, testLogger())

	decision := model.ReviewDecision{DocID: 7, AdminID: 2, Status: "pending"}
	if err := review.SubmitDecision(context.Background(), decision); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("Ожидался ErrInvalidDecision, получено: %v", err)
	}
	if api.decisionCalls != 0 {
		t.Errorf("Решение отправлено %d раз", api.decisionCalls)
	}
}
