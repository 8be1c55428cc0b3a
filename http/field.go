package http

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/aukilabs/gecko/featureflag"
	"github.com/aukilabs/gecko/geometry"
	"github.com/aukilabs/gecko/protocol"
	"github.com/aukilabs/gecko/render"
	"github.com/aukilabs/gecko/scalarfield"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/segmentio/encoding/json"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	contentTypeProtobuf = "application/x-protobuf"
)

// FieldHandler serves the field loaded at startup. The field is read only
// once the handler is serving.
type FieldHandler struct {
	Field        *scalarfield.Field[float32]
	Info         scalarfield.Info
	Texture      *render.VolumeTexture
	Mesh         render.Mesh
	FeatureFlags featureflag.FeatureFlag
}

// NewFieldHandler describes f and prepares its texture and mesh.
func NewFieldHandler(f *scalarfield.Field[float32], flags featureflag.FeatureFlag) *FieldHandler {
	return &FieldHandler{
		Field:        f,
		Info:         scalarfield.Describe(f),
		Texture:      render.NewVolumeTexture(f),
		Mesh:         render.UnitCube(),
		FeatureFlags: flags,
	}
}

// Register adds the field routes to mux.
func (h *FieldHandler) Register(mux *http.ServeMux) {
	mux.Handle("/field", HandleWithCORS(http.HandlerFunc(h.HandleInfo)))
	mux.Handle("/field/data", HandleWithCORS(http.HandlerFunc(h.HandleData)))
	mux.Handle("/field/voxel", HandleWithCORS(http.HandlerFunc(h.HandleVoxel)))
	mux.Handle("/field/slice.png", HandleWithCORS(http.HandlerFunc(h.HandleSlicePlot)))
	mux.Handle("/field/mesh", HandleWithCORS(http.HandlerFunc(h.HandleMesh)))
}

// HandleInfo writes the field description. Clients that accept protobuf get
// a google.protobuf.Struct.
func (h *FieldHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), contentTypeProtobuf) &&
		!h.FeatureFlags.IsSet(featureflag.FlagDisableProtobufInfo) {
		h.writeProtobufInfo(w)
		return
	}

	WriteJSON(w, http.StatusOK, h.Info)
}

func (h *FieldHandler) writeProtobufInfo(w http.ResponseWriter) {
	b, err := json.Marshal(h.Info)
	if err != nil {
		InternalServerError(w, errors.New("encoding field info failed").Wrap(err))
		return
	}

	var info structpb.Struct
	if err := protojson.Unmarshal(b, &info); err != nil {
		InternalServerError(w, errors.New("converting field info failed").Wrap(err))
		return
	}

	b, err = proto.Marshal(&info)
	if err != nil {
		InternalServerError(w, errors.New("encoding field info failed").Wrap(err))
		return
	}

	w.Header().Set("Content-Type", contentTypeProtobuf)
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// HandleData writes the texture upload buffer. The extent and the row layout
// are sent as headers.
func (h *FieldHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	size := h.Texture.Texture.Size

	header := w.Header()
	header.Set("Content-Type", "application/octet-stream")
	header.Set("Content-Length", strconv.Itoa(h.Texture.Size()))
	header.Set("X-Field-Extent", joinInts(int(size.Width), int(size.Height), int(size.DepthOrArrayLayers)))
	header.Set("X-Field-Bytes-Per-Row", strconv.Itoa(int(h.Texture.Layout.BytesPerRow)))
	header.Set("X-Field-Rows-Per-Image", strconv.Itoa(int(h.Texture.Layout.RowsPerImage)))

	w.WriteHeader(http.StatusOK)
	w.Write(h.Texture.Bytes())
}

// HandleVoxel writes the sample at the i, j and k query parameters.
func (h *FieldHandler) HandleVoxel(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var index [3]int
	for axis, name := range []string{"i", "j", "k"} {
		v, err := strconv.Atoi(query.Get(name))
		if err != nil {
			BadRequest(w, errors.New("invalid voxel index").
				WithType(ErrTypeBadRequest).
				WithTag("param", name).
				Wrap(err))
			return
		}
		index[axis] = v
	}

	i, j, k := index[0], index[1], index[2]
	value, err := h.Field.At(i, j, k)
	if err != nil {
		BadRequest(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, protocol.ProbeResponse{
		I:        i,
		J:        j,
		K:        k,
		Value:    value,
		Position: h.Field.ElementPosition(i, j, k),
	})
}

// HandleSlicePlot writes a PNG heat map of the slice at the k query
// parameter, the middle slice when it is missing.
func (h *FieldHandler) HandleSlicePlot(w http.ResponseWriter, r *http.Request) {
	if h.FeatureFlags.IsSet(featureflag.FlagDisableSlicePlot) {
		NotFound(w, errors.New("slice plot is disabled").WithType(ErrTypeNotFound))
		return
	}

	k := h.Field.ZSize() / 2
	if param := r.URL.Query().Get("k"); param != "" {
		v, err := strconv.Atoi(param)
		if err != nil {
			BadRequest(w, errors.New("invalid slice index").
				WithType(ErrTypeBadRequest).
				WithTag("param", "k").
				Wrap(err))
			return
		}
		k = v
	}

	var buf bytes.Buffer
	if err := render.WriteSliceHeatMap(&buf, h.Field, k); err != nil {
		if errors.IsType(err, scalarfield.ErrTypeOutOfRange) {
			BadRequest(w, err)
			return
		}
		InternalServerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// MeshResponse is the bounding mesh of the field with the matrix that places
// it on the field bounds.
type MeshResponse struct {
	Vertices []geometry.Vec3[float32] `json:"vertices"`
	Indices  []uint16                 `json:"indices"`
	Model    geometry.Mat4            `json:"model"`
}

// HandleMesh writes the bounding mesh and the field model matrix as JSON.
func (h *FieldHandler) HandleMesh(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, MeshResponse{
		Vertices: h.Mesh.Vertices,
		Indices:  h.Mesh.Indices,
		Model:    h.Field.ModelMatrix(),
	})
}

func joinInts(values ...int) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, ",")
}
