package reconciler

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/core/ports/gateway"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
	"github.com/SscSPs/pbc_workflow_app/internal/realtime"
)

// DocumentRequests mirrors an engagement's document requests, keyed by id.
type DocumentRequests struct {
	base
	gateway gateway.DocumentRequestGateway

	requests []domain.DocumentRequest
}

// NewDocumentRequests creates an unmounted document request reconciler.
func NewDocumentRequests(gw gateway.DocumentRequestGateway, channel realtime.Channel, opts ...Option) *DocumentRequests {
	return &DocumentRequests{
		base:    newBase(channel, "document_request_reconciler", opts),
		gateway: gw,
	}
}

func (d *DocumentRequests) reset() {
	d.requests = nil
}

// Mount subscribes to document request updates of engagementID.
func (d *DocumentRequests) Mount(ctx context.Context, engagementID string) error {
	return d.mount(ctx, engagementID, d.reset, map[string]func(json.RawMessage){
		realtime.EventDocumentRequestUpdate: func(payload json.RawMessage) {
			if r, ok := decode[domain.DocumentRequest](d.logger, realtime.EventDocumentRequestUpdate, payload); ok {
				d.replaceLocked(r)
			}
		},
	})
}

// Unmount drops the subscription and the local state.
func (d *DocumentRequests) Unmount(ctx context.Context) {
	d.unmount(ctx, d.reset)
}

// Load replaces the local requests with the server snapshot.
func (d *DocumentRequests) Load(ctx context.Context) error {
	engagementID, gen, err := d.beginLoad()
	if err != nil {
		return err
	}

	requests, err := d.gateway.GetDocumentRequestsByEngagement(ctx, engagementID)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.endLoad()
	if err != nil {
		d.logger.Warn("Failed to load document requests", slog.String("engagement_id", engagementID), slog.Any("error", err))
		return err
	}
	if d.generation != gen {
		return nil
	}
	d.requests = append([]domain.DocumentRequest(nil), requests...)
	return nil
}

// Create persists a new request and appends the server's copy, with its
// server-assigned id.
func (d *DocumentRequests) Create(ctx context.Context, req dto.CreateDocumentRequestRequest) (*domain.DocumentRequest, error) {
	engagementID, gen, err := d.begin()
	if err != nil {
		return nil, err
	}
	if req.EngagementID == "" {
		req.EngagementID = engagementID
	}
	if req.EngagementID != engagementID {
		return nil, apperrors.NewValidationFailedError("document request belongs to engagement " + req.EngagementID + ", not the mounted " + engagementID)
	}

	created, err := d.gateway.CreateDocumentRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.generation == gen {
		if i := d.indexLocked(created.RequestID); i >= 0 {
			d.requests[i] = *created
		} else {
			d.requests = append(d.requests, *created)
		}
	}
	return created, nil
}

// UpdateStatus validates the move locally, persists it and applies the
// confirmed request. Unknown ids are a no-op.
func (d *DocumentRequests) UpdateStatus(ctx context.Context, requestID string, status domain.DocumentRequestStatus) error {
	return d.mutate(ctx, requestID,
		func(r *domain.DocumentRequest) error { return r.TransitionTo(status, d.now()) },
		func(ctx context.Context) (*domain.DocumentRequest, error) {
			return d.gateway.UpdateDocumentRequestStatus(ctx, requestID, status)
		})
}

// AddDocument attaches an uploaded document to a request.
func (d *DocumentRequests) AddDocument(ctx context.Context, requestID string, doc dto.AddDocumentRequest) error {
	return d.mutate(ctx, requestID,
		func(r *domain.DocumentRequest) error {
			return r.AddDocument(domain.Document{Name: doc.Name, URL: doc.URL, UploadedAt: d.now()})
		},
		func(ctx context.Context) (*domain.DocumentRequest, error) {
			return d.gateway.AddDocument(ctx, requestID, doc)
		})
}

func (d *DocumentRequests) mutate(ctx context.Context, requestID string, check func(*domain.DocumentRequest) error, persist func(context.Context) (*domain.DocumentRequest, error)) error {
	d.mu.Lock()
	if d.engagementID == "" {
		d.mu.Unlock()
		return ErrNotMounted
	}
	gen := d.generation
	i := d.indexLocked(requestID)
	var probe domain.DocumentRequest
	if i >= 0 {
		probe = d.requests[i]
		probe.Documents = slices.Clone(probe.Documents)
	}
	d.mu.Unlock()
	if i < 0 {
		d.logger.Debug("Mutation of unknown document request ignored", slog.String("request_id", requestID))
		return nil
	}
	if err := check(&probe); err != nil {
		return err
	}

	updated, err := persist(ctx)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.generation == gen {
		d.replaceLocked(*updated)
	}
	return nil
}

// ApplyUpdate merges an externally received request. Unknown ids are ignored.
func (d *DocumentRequests) ApplyUpdate(r domain.DocumentRequest) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.replaceLocked(r)
}

func (d *DocumentRequests) replaceLocked(r domain.DocumentRequest) {
	if r.EngagementID != "" && r.EngagementID != d.engagementID {
		return
	}
	if i := d.indexLocked(r.RequestID); i >= 0 {
		d.requests[i] = r
	}
}

func (d *DocumentRequests) indexLocked(requestID string) int {
	return slices.IndexFunc(d.requests, func(r domain.DocumentRequest) bool {
		return r.RequestID == requestID
	})
}

// Requests returns a copy of the requests in server order.
func (d *DocumentRequests) Requests() []domain.DocumentRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.DocumentRequest(nil), d.requests...)
}

// Pending counts requests still waiting on the client.
func (d *DocumentRequests) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, r := range d.requests {
		if r.Status == domain.DocumentRequestPending {
			n++
		}
	}
	return n
}
