// Package docs 注册 swagger 文档；由 handler 注释整理而来，接口变更后用 swag init 重新生成
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
        "/api/v1/posts": {"post": {"tags": ["帖子"], "summary": "发帖", "responses": {"201": {"description": "Created"}}}},
        "/api/v1/posts/{id}": {"get": {"tags": ["帖子"], "summary": "帖子详情", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/feed": {"get": {"tags": ["帖子"], "summary": "时间线", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/posts/{id}/like": {
            "post": {"tags": ["互动"], "summary": "点赞帖子", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["互动"], "summary": "取消点赞", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/posts/{id}/comments": {
            "post": {"tags": ["互动"], "summary": "发表评论", "responses": {"201": {"description": "Created"}}},
            "get": {"tags": ["互动"], "summary": "评论列表", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/users/{id}/follow": {
            "post": {"tags": ["关系链"], "summary": "关注用户", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["关系链"], "summary": "取消关注", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/users/{id}/stats": {"get": {"tags": ["关系链"], "summary": "关注统计", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/users/{id}/following": {"get": {"tags": ["关系链"], "summary": "查询关注列表", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/users/{id}/followers": {"get": {"tags": ["关系链"], "summary": "查询粉丝列表", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/notifications": {"get": {"tags": ["通知"], "summary": "通知列表", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/notifications/unread-count": {"get": {"tags": ["通知"], "summary": "未读通知数", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/notifications/read-all": {"post": {"tags": ["通知"], "summary": "全部已读", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Campus Engagement API",
	Description:      "点赞、评论、关注与通知",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
