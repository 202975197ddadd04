package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"docsign-client/internal/config"
	"docsign-client/internal/domain/entity"
	"docsign-client/internal/domain/repository"
	"docsign-client/internal/infrastructure/render"
)

// ViewState is the document-related view currently open
type ViewState string

const (
	StateListing    ViewState = "listing"
	StatePreviewing ViewState = "previewing"
	StateSigning    ViewState = "signing"
	StateVerifying  ViewState = "verifying"
)

// Confirmer is the synchronous gate in front of irreversible actions
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// ActionView is the serializable form of an ActionState
type ActionView struct {
	Phase entity.ActionPhase `json:"phase"`
	Error string             `json:"error,omitempty"`
}

// View is a read-only snapshot of the controller
type View struct {
	ID                string                           `json:"id,omitempty"`
	State             ViewState                        `json:"state"`
	Document          *entity.DocumentSummary          `json:"document,omitempty"`
	TotalPages        int                              `json:"total_pages"`
	Page              int                              `json:"page"`
	Scale             float64                          `json:"scale"`
	Width             int                              `json:"width"`
	Height            int                              `json:"height"`
	RenderError       string                           `json:"render_error,omitempty"`
	Anchor            *entity.SignatureAnchor          `json:"anchor,omitempty"`
	HasCertificate    bool                             `json:"has_certificate"`
	CertificateSource entity.CertificateSource         `json:"certificate_source,omitempty"`
	Verdict           *entity.VerificationResult       `json:"verdict,omitempty"`
	LastSigning       *entity.SigningResult            `json:"last_signing,omitempty"`
	Actions           map[entity.ActionKind]ActionView `json:"actions"`
}

type LifecycleUsecase interface {
	// Attach hands the controller the session it acts with; nil detaches
	Attach(sess *entity.Session)

	Refresh(ctx context.Context) ([]entity.DocumentSummary, error)
	Documents() []entity.DocumentSummary
	Upload(ctx context.Context, filename string, content []byte) ([]entity.DocumentSummary, error)
	Download(ctx context.Context, documentID string) (*entity.DocumentContent, error)
	Delete(ctx context.Context, documentID string, confirm Confirmer) (string, error)

	Preview(ctx context.Context, documentID string) (View, error)
	BeginSigning(ctx context.Context, documentID string) (View, error)
	BeginVerifying(ctx context.Context, documentID string) (View, error)
	Back() View
	View() View

	RenderPage(ctx context.Context, page int, scale float64) (*render.Bitmap, error)
	ZoomIn(ctx context.Context) (*render.Bitmap, error)
	ZoomOut(ctx context.Context) (*render.Bitmap, error)
	SetZoom(ctx context.Context, scale float64) (*render.Bitmap, error)
	Bitmap() *render.Bitmap

	SelectPoint(pixelX, pixelY float64, canvasWidth, canvasHeight int) (entity.SignatureAnchor, error)
	ClearAnchor()
	Sign(ctx context.Context) (*entity.SigningResult, error)

	SetCertificate(material entity.CertificateMaterial, source entity.CertificateSource) error
	FetchServerCertificate(ctx context.Context) (entity.CertificateMaterial, error)
	Verify(ctx context.Context) (*entity.VerificationResult, error)
}

// activeView is one open Previewing, Signing or Verifying view. Every call
// made on its behalf is bound to ctx, which closing the view cancels.
type activeView struct {
	id         string
	state      ViewState
	doc        entity.DocumentSummary
	content    *entity.DocumentContent
	surface    *render.Surface
	totalPages int
	page       int
	scale      float64
	width      int
	height     int
	renderErr  error
	cert       entity.CertificateMaterial
	certSource entity.CertificateSource
	verdict    *entity.VerificationResult

	ctx    context.Context
	cancel context.CancelFunc
}

func (v *activeView) filename() string {
	if v.content != nil && v.content.Filename != "" {
		return v.content.Filename
	}
	return v.doc.Filename
}

type lifecycleUsecase struct {
	config   *config.Config
	docs     repository.DocumentRepository
	keys     repository.KeyRepository
	signer   SigningUsecase
	verifier VerificationUsecase
	surfaces *render.Factory
	notifier *Notifier
	guard    *ActionGuard
	selector *Selector
	logger   *zap.Logger

	mu          sync.Mutex
	session     *entity.Session
	state       ViewState
	documents   []entity.DocumentSummary
	refreshSeq  uint64
	appliedSeq  uint64
	pending     *activeView
	active      *activeView
	lastSigning *entity.SigningResult
}

func NewLifecycleUsecase(
	cfg *config.Config,
	docs repository.DocumentRepository,
	keys repository.KeyRepository,
	signer SigningUsecase,
	verifier VerificationUsecase,
	surfaces *render.Factory,
	notifier *Notifier,
	guard *ActionGuard,
	selector *Selector,
	logger *zap.Logger,
) LifecycleUsecase {
	return &lifecycleUsecase{
		config:   cfg,
		docs:     docs,
		keys:     keys,
		signer:   signer,
		verifier: verifier,
		surfaces: surfaces,
		notifier: notifier,
		guard:    guard,
		selector: selector,
		logger:   logger,
		state:    StateListing,
	}
}

// bind derives a call context that ends with the caller, the view or the timeout
func bind(ctx, viewCtx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	stop := context.AfterFunc(viewCtx, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

// fail surfaces err as a notice and returns it
func (l *lifecycleUsecase) fail(err error) error {
	l.notifier.Error(err)
	return err
}

func (l *lifecycleUsecase) Attach(sess *entity.Session) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.session != nil && (sess == nil || sess.UserID != l.session.UserID) {
		l.closeViewLocked()
		l.documents = nil
		l.lastSigning = nil
		for kind, state := range l.guard.Snapshot() {
			if state.Phase != entity.PhaseInFlight {
				l.guard.Reset(kind)
			}
		}
	}
	l.session = sess
}

func (l *lifecycleUsecase) requireSession() (*entity.Session, error) {
	l.mu.Lock()
	sess := l.session
	l.mu.Unlock()

	if !sess.Valid() {
		return nil, &entity.AuthError{Message: entity.ErrNoSession.Error()}
	}
	return sess, nil
}

// ========== Document list ==========

func (l *lifecycleUsecase) Refresh(ctx context.Context) ([]entity.DocumentSummary, error) {
	docs, err := l.refresh(ctx)
	if err != nil {
		return nil, l.fail(err)
	}
	return docs, nil
}

// refresh replaces the snapshot with the server's list. A response older than
// the snapshot already applied is dropped.
func (l *lifecycleUsecase) refresh(ctx context.Context) ([]entity.DocumentSummary, error) {
	sess, err := l.requireSession()
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.refreshSeq++
	seq := l.refreshSeq
	l.mu.Unlock()

	listCtx, cancel := context.WithTimeout(ctx, l.config.Signing.ContentTimeout)
	defer cancel()

	docs, err := l.docs.List(listCtx, sess)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq > l.appliedSeq {
		l.documents = docs
		l.appliedSeq = seq
	}
	return l.documentsLocked(), nil
}

func (l *lifecycleUsecase) Documents() []entity.DocumentSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.documentsLocked()
}

func (l *lifecycleUsecase) documentsLocked() []entity.DocumentSummary {
	out := make([]entity.DocumentSummary, len(l.documents))
	copy(out, l.documents)
	return out
}

func (l *lifecycleUsecase) lookupLocked(documentID string) entity.DocumentSummary {
	for _, doc := range l.documents {
		if doc.ID == documentID {
			return doc
		}
	}
	return entity.DocumentSummary{ID: documentID}
}

func (l *lifecycleUsecase) validateUpload(filename string, content []byte) error {
	allowed := l.config.Upload.AllowedExtensions
	maxSize := l.config.Upload.MaxSizeBytes()

	err := validation.Errors{
		"file": validation.Validate(content,
			validation.By(func(value interface{}) error {
				if len(value.([]byte)) == 0 {
					return entity.ErrMissingFile
				}
				return nil
			}),
			validation.By(func(value interface{}) error {
				if size := int64(len(value.([]byte))); maxSize > 0 && size > maxSize {
					return fmt.Errorf("%w: %d bytes, limit is %d", entity.ErrFileTooLarge, size, maxSize)
				}
				return nil
			}),
		),
		"filename": validation.Validate(filename,
			validation.By(func(value interface{}) error {
				name := strings.TrimSpace(value.(string))
				if name == "" {
					return entity.ErrMissingFile
				}
				ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
				for _, a := range allowed {
					if strings.EqualFold(a, ext) {
						return nil
					}
				}
				return fmt.Errorf("%w: %q, allowed: %s", entity.ErrUnsupportedFile, ext, strings.Join(allowed, ", "))
			}),
		),
	}.Filter()

	return asValidationError(err)
}

func (l *lifecycleUsecase) Upload(ctx context.Context, filename string, content []byte) ([]entity.DocumentSummary, error) {
	sess, err := l.requireSession()
	if err != nil {
		return nil, l.fail(err)
	}

	if filename = strings.TrimSpace(filename); filename != "" {
		filename = path.Base(strings.ReplaceAll(filename, "\\", "/"))
	}
	if err := l.validateUpload(filename, content); err != nil {
		return nil, l.fail(err)
	}

	if err := l.guard.Begin(entity.ActionUpload); err != nil {
		return nil, l.fail(err)
	}

	uploadCtx, cancel := context.WithTimeout(ctx, l.config.Signing.ActionTimeout)
	err = l.docs.Upload(uploadCtx, sess, filename, content)
	cancel()

	if err != nil {
		l.guard.Finish(entity.ActionUpload, nil, err)
		return nil, l.fail(err)
	}
	l.guard.Finish(entity.ActionUpload, filename, nil)
	l.notifier.Info(fmt.Sprintf("%s uploaded", filename))

	docs, err := l.refresh(ctx)
	if err != nil {
		return nil, l.fail(err)
	}
	return docs, nil
}

func (l *lifecycleUsecase) Download(ctx context.Context, documentID string) (*entity.DocumentContent, error) {
	sess, err := l.requireSession()
	if err != nil {
		return nil, l.fail(err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, l.config.Signing.ContentTimeout)
	defer cancel()

	content, err := l.docs.Content(fetchCtx, sess, documentID)
	if err != nil {
		return nil, l.fail(err)
	}
	if content.Filename == "" {
		l.mu.Lock()
		content.Filename = l.lookupLocked(documentID).Filename
		l.mu.Unlock()
	}
	return content, nil
}

func (l *lifecycleUsecase) Delete(ctx context.Context, documentID string, confirm Confirmer) (string, error) {
	sess, err := l.requireSession()
	if err != nil {
		return "", l.fail(err)
	}

	l.mu.Lock()
	state := l.state
	doc := l.lookupLocked(documentID)
	l.mu.Unlock()

	if state != StateListing {
		return "", l.fail(fmt.Errorf("delete: %w", entity.ErrInvalidState))
	}

	name := doc.Filename
	if name == "" {
		name = "document " + documentID
	}
	if confirm == nil || !confirm.Confirm(ctx, fmt.Sprintf("Delete %s? This cannot be undone.", name)) {
		return "", l.fail(entity.NewValidationError("confirm", entity.ErrNotConfirmed))
	}

	if err := l.guard.Begin(entity.ActionDelete); err != nil {
		return "", l.fail(err)
	}

	deleteCtx, cancel := context.WithTimeout(ctx, l.config.Signing.ActionTimeout)
	message, err := l.docs.Delete(deleteCtx, sess, documentID)
	cancel()

	if err != nil {
		l.guard.Finish(entity.ActionDelete, nil, err)
		return "", l.fail(err)
	}
	l.guard.Finish(entity.ActionDelete, message, nil)

	if message == "" {
		message = fmt.Sprintf("%s deleted", name)
	}
	l.notifier.Info(message)

	if _, err := l.refresh(ctx); err != nil {
		l.notifier.Error(err)
	}
	return message, nil
}

// ========== Views ==========

func (l *lifecycleUsecase) Preview(ctx context.Context, documentID string) (View, error) {
	return l.open(ctx, documentID, StatePreviewing)
}

func (l *lifecycleUsecase) BeginSigning(ctx context.Context, documentID string) (View, error) {
	return l.open(ctx, documentID, StateSigning)
}

func (l *lifecycleUsecase) BeginVerifying(ctx context.Context, documentID string) (View, error) {
	return l.open(ctx, documentID, StateVerifying)
}

// open closes whatever view is open, fetches the document and enters target.
// A failed fetch leaves the controller in Listing.
func (l *lifecycleUsecase) open(ctx context.Context, documentID string, target ViewState) (View, error) {
	sess, err := l.requireSession()
	if err != nil {
		return View{}, l.fail(err)
	}

	if err := l.guard.Begin(entity.ActionFetch); err != nil {
		return View{}, l.fail(err)
	}

	viewCtx, viewCancel := context.WithCancel(context.Background())
	view := &activeView{
		id:     uuid.NewString(),
		state:  target,
		ctx:    viewCtx,
		cancel: viewCancel,
	}

	l.mu.Lock()
	l.closeViewLocked()
	view.doc = l.lookupLocked(documentID)
	l.pending = view
	l.mu.Unlock()

	fetchCtx, cancel := bind(ctx, viewCtx, l.config.Signing.ContentTimeout)
	content, err := l.docs.Content(fetchCtx, sess, documentID)
	cancel()

	l.mu.Lock()
	if l.pending != view {
		l.mu.Unlock()
		viewCancel()
		content.Release()
		l.guard.Finish(entity.ActionFetch, nil, entity.ErrViewChanged)
		return View{}, entity.ErrViewChanged
	}
	l.pending = nil

	if err != nil {
		l.mu.Unlock()
		viewCancel()
		l.guard.Finish(entity.ActionFetch, nil, err)
		return View{}, l.fail(err)
	}

	view.content = content
	if view.doc.Filename == "" {
		name, format := entity.SplitFilename(content.Filename)
		view.doc.Filename = content.Filename
		view.doc.DisplayName = name
		view.doc.Format = format
	}
	view.surface = l.surfaces.New()
	view.page = 1
	view.scale = l.surfaces.Zoom().Default

	l.active = view
	l.state = target
	l.selector.Clear()
	l.mu.Unlock()

	l.guard.Finish(entity.ActionFetch, view.doc.ID, nil)

	l.logger.Info("View opened",
		zap.String("view_id", view.id),
		zap.String("state", string(target)),
		zap.String("document_id", documentID),
	)

	l.loadSurface(ctx, view)
	return l.View(), nil
}

// loadSurface parses the document and renders the first page. A render
// failure degrades the view to an error panel; the view stays open.
func (l *lifecycleUsecase) loadSurface(ctx context.Context, view *activeView) {
	res, err := view.surface.Load(view.content.Bytes)
	if err != nil {
		l.mu.Lock()
		view.renderErr = err
		l.mu.Unlock()
		l.notifier.Error(err)
		return
	}

	l.mu.Lock()
	view.totalPages = res.TotalPages
	l.mu.Unlock()

	if _, err := l.renderView(ctx, view, view.page, view.scale); err != nil && !errors.Is(err, entity.ErrViewChanged) {
		l.notifier.Error(err)
	}
}

func (l *lifecycleUsecase) renderView(ctx context.Context, view *activeView, page int, scale float64) (*render.Bitmap, error) {
	renderCtx, cancel := bind(ctx, view.ctx, l.config.Signing.ContentTimeout)
	defer cancel()

	bmp, err := view.surface.RenderPage(renderCtx, page, scale)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active != view {
		return nil, entity.ErrViewChanged
	}
	if bmp == nil && err == nil {
		// superseded by a newer render
		return nil, nil
	}
	if err != nil {
		view.renderErr = err
		return nil, err
	}

	view.renderErr = nil
	view.page = bmp.Page
	view.scale = bmp.Scale
	view.width = bmp.Width
	view.height = bmp.Height

	if l.selector.Invalidate(bmp.Scale, view.totalPages) {
		l.logger.Debug("Anchor invalidated by re-render",
			zap.Int("page", bmp.Page),
			zap.Float64("scale", bmp.Scale),
		)
	}
	return bmp, nil
}

func (l *lifecycleUsecase) activeSurface() (*activeView, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	view := l.active
	if view == nil || view.surface == nil {
		return nil, fmt.Errorf("render: %w", entity.ErrInvalidState)
	}
	return view, nil
}

func (l *lifecycleUsecase) RenderPage(ctx context.Context, page int, scale float64) (*render.Bitmap, error) {
	view, err := l.activeSurface()
	if err != nil {
		return nil, l.fail(err)
	}

	bmp, err := l.renderView(ctx, view, page, scale)
	if err != nil && !errors.Is(err, entity.ErrViewChanged) {
		return nil, l.fail(err)
	}
	return bmp, err
}

func (l *lifecycleUsecase) zoomTo(ctx context.Context, next func(policy render.ZoomPolicy, current float64) float64) (*render.Bitmap, error) {
	view, err := l.activeSurface()
	if err != nil {
		return nil, l.fail(err)
	}

	l.mu.Lock()
	page, scale := view.page, view.scale
	l.mu.Unlock()

	return l.RenderPage(ctx, page, next(view.surface.Zoom(), scale))
}

func (l *lifecycleUsecase) ZoomIn(ctx context.Context) (*render.Bitmap, error) {
	return l.zoomTo(ctx, func(p render.ZoomPolicy, s float64) float64 { return p.In(s) })
}

func (l *lifecycleUsecase) ZoomOut(ctx context.Context) (*render.Bitmap, error) {
	return l.zoomTo(ctx, func(p render.ZoomPolicy, s float64) float64 { return p.Out(s) })
}

func (l *lifecycleUsecase) SetZoom(ctx context.Context, scale float64) (*render.Bitmap, error) {
	return l.zoomTo(ctx, func(p render.ZoomPolicy, _ float64) float64 { return p.Clamp(scale) })
}

func (l *lifecycleUsecase) Bitmap() *render.Bitmap {
	l.mu.Lock()
	view := l.active
	l.mu.Unlock()

	if view == nil || view.surface == nil {
		return nil
	}
	return view.surface.Current()
}

// Back closes the open view, cancelling any call made on its behalf. It is
// always available.
func (l *lifecycleUsecase) Back() View {
	l.mu.Lock()
	l.closeViewLocked()
	l.mu.Unlock()

	return l.View()
}

func (l *lifecycleUsecase) closeViewLocked() {
	if l.pending != nil {
		l.pending.cancel()
		l.pending = nil
	}
	if l.active != nil {
		l.active.cancel()
		if l.active.surface != nil {
			l.active.surface.Close()
		}
		l.active.content.Release()
		l.logger.Debug("View closed", zap.String("view_id", l.active.id))
		l.active = nil
	}
	l.selector.Clear()
	l.state = StateListing
}

func (l *lifecycleUsecase) View() View {
	l.mu.Lock()
	defer l.mu.Unlock()

	v := View{
		State:       l.state,
		LastSigning: l.lastSigning,
		Actions:     make(map[entity.ActionKind]ActionView),
	}
	for kind, state := range l.guard.Snapshot() {
		v.Actions[kind] = ActionView{Phase: state.Phase, Error: state.ErrorMessage()}
	}

	view := l.active
	if view == nil {
		return v
	}

	doc := view.doc
	v.ID = view.id
	v.Document = &doc
	v.TotalPages = view.totalPages
	v.Page = view.page
	v.Scale = view.scale
	v.Width = view.width
	v.Height = view.height
	if view.renderErr != nil {
		_, v.RenderError = entity.Classify(view.renderErr)
	}
	if view.state == StateSigning {
		v.Anchor = l.selector.CurrentAnchor()
	}
	v.HasCertificate = !view.cert.IsEmpty()
	v.CertificateSource = view.certSource
	v.Verdict = view.verdict
	return v
}

// ========== Signing ==========

func (l *lifecycleUsecase) SelectPoint(pixelX, pixelY float64, canvasWidth, canvasHeight int) (entity.SignatureAnchor, error) {
	l.mu.Lock()
	view := l.active
	if l.state != StateSigning || view == nil || view.width == 0 {
		l.mu.Unlock()
		return entity.SignatureAnchor{}, l.fail(fmt.Errorf("select point: %w", entity.ErrInvalidState))
	}
	page, scale := view.page, view.scale
	if canvasWidth <= 0 || canvasHeight <= 0 {
		canvasWidth, canvasHeight = view.width, view.height
	}
	l.mu.Unlock()

	return l.selector.SelectPoint(pixelX, pixelY, page, scale, canvasWidth, canvasHeight), nil
}

func (l *lifecycleUsecase) ClearAnchor() {
	l.selector.Clear()
}

// Sign submits the open signing view. Success returns to Listing and
// re-fetches the list; failure leaves the view and anchor untouched.
func (l *lifecycleUsecase) Sign(ctx context.Context) (*entity.SigningResult, error) {
	sess, err := l.requireSession()
	if err != nil {
		return nil, l.fail(err)
	}

	l.mu.Lock()
	view := l.active
	if l.state != StateSigning || view == nil || view.content == nil {
		l.mu.Unlock()
		return nil, l.fail(fmt.Errorf("sign: %w", entity.ErrInvalidState))
	}
	content := view.content.Bytes
	filename := view.filename()
	l.mu.Unlock()

	if err := l.guard.Begin(entity.ActionSign); err != nil {
		return nil, l.fail(err)
	}

	signCtx, cancel := bind(ctx, view.ctx, l.config.Signing.ActionTimeout)
	result, err := l.signer.Sign(signCtx, sess, content, filename, l.selector.CurrentAnchor())
	cancel()

	l.mu.Lock()
	if l.active != view {
		l.mu.Unlock()
		l.guard.Finish(entity.ActionSign, nil, entity.ErrViewChanged)
		l.logger.Info("Signing result discarded, view was closed", zap.String("view_id", view.id))
		return nil, entity.ErrViewChanged
	}
	if err != nil {
		l.mu.Unlock()
		l.guard.Finish(entity.ActionSign, nil, err)
		return nil, l.fail(err)
	}

	l.lastSigning = result
	l.closeViewLocked()
	l.mu.Unlock()

	l.guard.Finish(entity.ActionSign, result, nil)
	l.notifier.Info(fmt.Sprintf("%s signed", filename))

	if _, err := l.refresh(ctx); err != nil {
		l.notifier.Error(err)
	}
	return result, nil
}

// ========== Verification ==========

func (l *lifecycleUsecase) verifyingView() (*activeView, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateVerifying || l.active == nil {
		return nil, entity.ErrInvalidState
	}
	return l.active, nil
}

// SetCertificate stores opaque certificate material for the open
// verification view. It is never parsed.
func (l *lifecycleUsecase) SetCertificate(material entity.CertificateMaterial, source entity.CertificateSource) error {
	view, err := l.verifyingView()
	if err != nil {
		return l.fail(fmt.Errorf("set certificate: %w", err))
	}

	l.mu.Lock()
	view.cert = material
	view.certSource = source
	l.mu.Unlock()
	return nil
}

func (l *lifecycleUsecase) FetchServerCertificate(ctx context.Context) (entity.CertificateMaterial, error) {
	sess, err := l.requireSession()
	if err != nil {
		return "", l.fail(err)
	}
	view, err := l.verifyingView()
	if err != nil {
		return "", l.fail(fmt.Errorf("fetch certificate: %w", err))
	}

	fetchCtx, cancel := bind(ctx, view.ctx, l.config.Signing.ContentTimeout)
	material, err := l.keys.PublicCertificate(fetchCtx, sess)
	cancel()
	if err != nil {
		return "", l.fail(err)
	}

	l.mu.Lock()
	if l.active != view {
		l.mu.Unlock()
		return "", entity.ErrViewChanged
	}
	view.cert = material
	view.certSource = entity.CertificateFromServer
	l.mu.Unlock()

	return material, nil
}

// Verify checks the open document against the selected certificate. The
// verdict is shown in place; the view stays in Verifying.
func (l *lifecycleUsecase) Verify(ctx context.Context) (*entity.VerificationResult, error) {
	sess, err := l.requireSession()
	if err != nil {
		return nil, l.fail(err)
	}
	view, err := l.verifyingView()
	if err != nil {
		return nil, l.fail(fmt.Errorf("verify: %w", err))
	}

	l.mu.Lock()
	var content []byte
	if view.content != nil {
		content = view.content.Bytes
	}
	filename := view.filename()
	cert := view.cert
	l.mu.Unlock()

	if err := l.guard.Begin(entity.ActionVerify); err != nil {
		return nil, l.fail(err)
	}

	verifyCtx, cancel := bind(ctx, view.ctx, l.config.Signing.ActionTimeout)
	result, err := l.verifier.Verify(verifyCtx, sess, content, filename, cert)
	cancel()

	l.mu.Lock()
	if l.active != view {
		l.mu.Unlock()
		l.guard.Finish(entity.ActionVerify, nil, entity.ErrViewChanged)
		l.logger.Info("Verification result discarded, view was closed", zap.String("view_id", view.id))
		return nil, entity.ErrViewChanged
	}
	if err != nil {
		l.mu.Unlock()
		l.guard.Finish(entity.ActionVerify, nil, err)
		return nil, l.fail(err)
	}
	view.verdict = result
	l.mu.Unlock()

	l.guard.Finish(entity.ActionVerify, result, nil)

	switch {
	case !result.Success:
		l.notifier.Push(result.FailureKind, result.Message)
	case result.IsValid:
		l.notifier.Info("Signature is valid")
	default:
		l.notifier.Push(entity.NoticeServer, "Signature is not valid")
	}

	if _, err := l.refresh(ctx); err != nil {
		l.notifier.Error(err)
	}
	return result, nil
}
