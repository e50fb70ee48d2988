// Package docs registers the OpenAPI description served under /swagger/.
// Regenerate with: swag init -g internal/api/router.go -o internal/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/keys": {
            "get": {
                "description": "Lists names and public keys stored in the vault. Secret material is never returned.",
                "produces": ["application/json"],
                "tags": ["keys"],
                "summary": "List vault keys",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.KeypairSummary"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/keys/generate": {
            "post": {
                "description": "Generates a new Ed25519 keypair and stores it in the vault under the given name",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["keys"],
                "summary": "Generate new keypair",
                "parameters": [
                    {"description": "Key name", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.GenerateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.GenerateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/keys/qr": {
            "get": {
                "description": "Returns the public key of a vault entry as a base64-encoded PNG QR code",
                "produces": ["application/json"],
                "tags": ["keys"],
                "summary": "Public key QR code",
                "parameters": [
                    {"type": "string", "description": "Key name", "name": "name", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.QRResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/mnemonic/validate": {
            "post": {
                "description": "Checks word count, vocabulary and checksum of a BIP39 seed phrase. A bad checksum is reported as a warning.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["mnemonic"],
                "summary": "Validate seed phrase",
                "parameters": [
                    {"description": "Seed phrase", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.ValidateMnemonicRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/derivation.ValidationResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/mnemonic/derive": {
            "post": {
                "description": "Derives public keys for consecutive account indexes of a seed phrase. Secret keys are never returned.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["mnemonic"],
                "summary": "Preview derived accounts",
                "parameters": [
                    {"description": "Seed phrase and path", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.DeriveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/derivation.DerivedAccount"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/tx/preview": {
            "post": {
                "description": "Decodes an unsigned transaction artifact. If signer is given it is compared to the fee payer (advisory only).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tx"],
                "summary": "Preview unsigned transaction",
                "parameters": [
                    {"description": "Unsigned artifact", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.PreviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/solana.TransactionPreview"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/signature/verify": {
            "post": {
                "description": "Checks a base58 signature over base64 message bytes. Malformed input is reported as invalid.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tx"],
                "summary": "Verify detached signature",
                "parameters": [
                    {"description": "Message, signature and public key", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.VerifySignatureRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.VerifySignatureResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "derivation.DerivedAccount": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "path": {"type": "string"},
                "publicKey": {"type": "string"}
            }
        },
        "derivation.ValidationResult": {
            "type": "object",
            "properties": {
                "checksumValid": {"type": "boolean"},
                "message": {"type": "string"},
                "valid": {"type": "boolean"},
                "wordCount": {"type": "integer"}
            }
        },
        "model.DeriveRequest": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "mnemonic": {"type": "string"},
                "passphrase": {"type": "string"},
                "preset": {"type": "string"},
                "startIndex": {"type": "integer"},
                "template": {"type": "string"}
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "model.GenerateRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            }
        },
        "model.GenerateResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "name": {"type": "string"},
                "publicKey": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "model.KeypairSummary": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "derivationPath": {"type": "string"},
                "hasMnemonic": {"type": "boolean"},
                "importedAt": {"type": "string"},
                "name": {"type": "string"},
                "publicKey": {"type": "string"}
            }
        },
        "model.PreviewRequest": {
            "type": "object",
            "properties": {
                "signer": {"type": "string"},
                "transaction": {"$ref": "#/definitions/model.UnsignedTransaction"}
            }
        },
        "model.QRResponse": {
            "type": "object",
            "properties": {
                "QR": {"type": "string"},
                "name": {"type": "string"},
                "publicKey": {"type": "string"}
            }
        },
        "model.TransactionMeta": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "decimals": {"type": "integer"},
                "tokenSymbol": {"type": "string"}
            }
        },
        "model.UnsignedTransaction": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "messageBase64": {"type": "string"},
                "meta": {"$ref": "#/definitions/model.TransactionMeta"},
                "network": {"type": "string"}
            }
        },
        "model.ValidateMnemonicRequest": {
            "type": "object",
            "properties": {
                "mnemonic": {"type": "string"}
            }
        },
        "model.VerifySignatureRequest": {
            "type": "object",
            "properties": {
                "messageBase64": {"type": "string"},
                "publicKey": {"type": "string"},
                "signature": {"type": "string"}
            }
        },
        "model.VerifySignatureResponse": {
            "type": "object",
            "properties": {
                "valid": {"type": "boolean"}
            }
        },
        "solana.TransactionPreview": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "decoded": {"type": "object"},
                "description": {"type": "string"},
                "network": {"type": "string"},
                "signer": {"type": "string"},
                "type": {"type": "string"},
                "verifiedSigner": {"type": "boolean"},
                "warnings": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "offline-signer API",
	Description:      "Local API of the offline Solana signer. It never signs transactions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
