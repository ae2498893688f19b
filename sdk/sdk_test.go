package sdk

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// the shapes below mirror what the generator emits for a variant interface

type Signer interface {
	isSigner()
	Type() string
}

type Signer_None struct{}

func (v Signer_None) isSigner() {}

func (v Signer_None) Type() string { return "None" }

func (v Signer_None) MarshalJSON() ([]byte, error) {
	type alias Signer_None
	return MarshalVariant("type", "None", alias(v))
}

type Signer_External struct {
	PublicKey string `json:"public_key"`
}

func (v Signer_External) isSigner() {}

func (v Signer_External) Type() string { return "External" }

func (v Signer_External) MarshalJSON() ([]byte, error) {
	type alias Signer_External
	return MarshalVariant("type", "External", alias(v))
}

func UnmarshalSigner(b []byte) (Signer, error) {
	typ, err := TypeExtract("type", b)
	if err != nil {
		return nil, err
	}
	switch typ {
	case "None":
		v := Signer_None{}
		if err := Unmarshal(b, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "External":
		v := Signer_External{}
		if err := Unmarshal(b, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, UnknownVariant("Signer", typ)
	}
}

type ParamsOfEncode struct {
	Address string   `json:"address"`
	Signer  Signer   `json:"signer"`
	Signers []Signer `json:"signers,omitempty"`
}

func (t *ParamsOfEncode) UnmarshalJSON(b []byte) error {
	type alias ParamsOfEncode
	return UnmarshalWithVariants(b, (*alias)(t), map[string]VariantSetter{
		"signer":  SetVariant(&t.Signer, UnmarshalSigner),
		"signers": SetVariantSlice(&t.Signers, UnmarshalSigner),
	})
}

type ResultOfEncode struct {
	Message string `json:"message"`
}

func TestMarshalVariant(t *testing.T) {
	assert := assert.New(t)

	b, err := json.Marshal(Signer_External{PublicKey: "abcd"})
	require.NoError(t, err)
	assert.Equal(`{"type":"External","public_key":"abcd"}`, string(b))

	b, err = json.Marshal(Signer_None{})
	require.NoError(t, err)
	assert.Equal(`{"type":"None"}`, string(b))

	_, err = MarshalVariant("type", "Bad", []int{1})
	assert.Error(err)
}

func TestTypeExtract(t *testing.T) {
	assert := assert.New(t)

	typ, err := TypeExtract("type", []byte(`{"public_key":"x","type":"External"}`))
	require.NoError(t, err)
	assert.Equal("External", typ)

	_, err = TypeExtract("type", []byte(`{"public_key":"x"}`))
	assert.ErrorIs(err, ErrMissingDiscriminator)

	_, err = TypeExtract("type", []byte(`{"type":7}`))
	assert.Error(err)

	_, err = UnmarshalSigner([]byte(`{"type":"Keys"}`))
	assert.ErrorIs(err, ErrUnknownVariant)
}

func TestVariantRoundTrip(t *testing.T) {
	assert := assert.New(t)

	in := ParamsOfEncode{
		Address: "0:abc",
		Signer:  Signer_External{PublicKey: "abcd"},
		Signers: []Signer{Signer_None{}, Signer_External{PublicKey: "ef"}},
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out ParamsOfEncode
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal("0:abc", out.Address)
	assert.Equal(Signer_External{PublicKey: "abcd"}, out.Signer)
	require.Len(t, out.Signers, 2)
	assert.Equal(Signer_None{}, out.Signers[0])
	assert.Equal("None", out.Signers[0].Type())
	assert.Equal("External", out.Signers[1].Type())

	var empty ParamsOfEncode
	require.NoError(t, json.Unmarshal([]byte(`{"address":"x","signer":null}`), &empty))
	assert.Nil(empty.Signer)

	assert.Error(json.Unmarshal([]byte(`{"signer":{"type":"Nope"}}`), &empty))
}

func TestDecodedVariantIsValue(t *testing.T) {
	assert := assert.New(t)

	in := Signer_External{PublicKey: "ab"}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	out, err := UnmarshalSigner(b)
	require.NoError(t, err)
	got, ok := out.(Signer_External)
	require.True(t, ok, "decoded %T", out)
	assert.Equal(in, got)
	assert.True(Signer(in) == out)

	switch out.(type) {
	case Signer_External:
	default:
		t.Fatalf("type switch missed %T", out)
	}
}

func TestCall(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	var seen []*Request
	c := NewClient(DispatcherFunc(func(ctx context.Context, req *Request) ([]byte, error) {
		seen = append(seen, req)
		switch req.Function {
		case "abi.encode_message":
			var p ParamsOfEncode
			if err := json.Unmarshal(req.Params, &p); err != nil {
				return nil, err
			}
			return json.Marshal(ResultOfEncode{Message: "msg:" + p.Address + ":" + p.Signer.Type()})
		case "abi.get_signer":
			return []byte(`{"type":"External","public_key":"k"}`), nil
		case "client.destroy":
			return nil, nil
		default:
			return nil, &Error{Code: 1, Message: "unknown function"}
		}
	}), WithUserAgent("test/1"))

	res, err := Call[ResultOfEncode](ctx, c, "abi.encode_message", &ParamsOfEncode{Address: "0:1", Signer: Signer_None{}})
	require.NoError(t, err)
	assert.Equal("msg:0:1:None", res.Message)
	assert.Equal("test/1", seen[0].UserAgent)
	assert.Nil(seen[0].AppObject)

	assert.NoError(CallVoid(ctx, c, "client.destroy", nil))
	assert.Nil(seen[1].Params)

	signer, err := CallVariant(ctx, c, "abi.get_signer", nil, UnmarshalSigner)
	require.NoError(t, err)
	assert.Equal(Signer_External{PublicKey: "k"}, signer)

	_, err = Call[ResultOfEncode](ctx, c, "abi.nope", nil)
	var sdkErr *Error
	require.True(t, errors.As(err, &sdkErr))
	assert.Equal(1, sdkErr.Code)
	assert.Equal("abi.nope: error 1: unknown function", sdkErr.Error())

	_, err = Call[ResultOfEncode](ctx, NewClient(nil), "abi.encode_message", nil)
	assert.Error(err)
}

type recordingApp struct{}

func (recordingApp) HandleRequest(ctx context.Context, request []byte) ([]byte, error) {
	return append([]byte("handled:"), request...), nil
}

func TestCallAppObject(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	c := NewClient(DispatcherFunc(func(ctx context.Context, req *Request) ([]byte, error) {
		if req.AppObject == nil {
			return nil, errors.New("expected app object")
		}
		reply, err := req.AppObject.HandleRequest(ctx, []byte("sign"))
		if err != nil {
			return nil, err
		}
		return json.Marshal(ResultOfEncode{Message: string(reply)})
	}))

	res, err := CallAppObject[ResultOfEncode](ctx, c, "crypto.register_signing_box", nil, recordingApp{})
	require.NoError(t, err)
	assert.Equal("handled:sign", res.Message)

	assert.NoError(CallAppObjectVoid(ctx, c, "crypto.register_signing_box", nil, recordingApp{}))
	assert.Error(CallVoid(ctx, c, "crypto.register_signing_box", nil))
}
