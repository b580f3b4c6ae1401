package config

// 默认配置文件内容（包含详细说明）
const DefaultConfigContent = `# Privacy Guard 配置文件

# 追踪器目录配置
catalog:
  # 是否启用追踪器目录（关闭后仅使用用户自定义名单）
  enable: true
  # 匹配引擎：simple（域名集合 + 祖先匹配）或 urlfilter（AdGuard 引擎）
  engine: "simple"
  # 规则列表来源（EasyList / EasyPrivacy 格式，仅解析 ||domain^ 规则）
  rule_urls:
    - "https://easylist.to/easylist/easyprivacy.txt"
  # 规则缓存目录
  cache_dir: "catalog_cache"
  # 规则自动更新间隔（小时，0 表示不自动更新）
  update_interval_hours: 24
  # 单个规则文件大小上限（MB）
  max_list_size_mb: 50

# Web API 管理界面配置
webui:
  # 是否启用 Web API（默认 true）
  enabled: true
  # 监听端口
  listen_port: 8787

# 系统配置
system:
  # 日志级别：debug / info / warn / error
  log_level: "info"

# 全局统计配置
stats:
  # 被拦截域名排行的统计窗口（小时）
  top_blocked_window_hours: 24
  # 统计桶粒度（分钟）
  top_blocked_bucket_minutes: 60
`
